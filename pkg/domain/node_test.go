package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/btkit/btdiff/pkg/domain"
)

func TestDeriveIdentityKey(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		attrs map[string]string
		pos   int
		want  string
	}{
		{
			name:  "name attribute wins",
			tag:   "Wait",
			attrs: map[string]string{"name": "pause", "ID": "ignored"},
			pos:   3,
			want:  "Wait:pause",
		},
		{
			name:  "ID attribute as fallback",
			tag:   "SubTree",
			attrs: map[string]string{"ID": "Recovery"},
			pos:   0,
			want:  "SubTree:Recovery",
		},
		{
			name:  "positional key when anonymous",
			tag:   "Sequence",
			attrs: map[string]string{"duration": "5"},
			pos:   2,
			want:  "Sequence[2]",
		},
		{
			name: "positional key with no attributes",
			tag:  "Fallback",
			pos:  0,
			want: "Fallback[0]",
		},
		{
			name:  "empty name attribute is not an identity",
			tag:   "Wait",
			attrs: map[string]string{"name": ""},
			pos:   1,
			want:  "Wait[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.DeriveIdentityKey(tt.tag, tt.attrs, tt.pos)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNode_HasExplicitIdentity(t *testing.T) {
	named := &domain.Node{Type: "Wait", Attributes: map[string]string{"name": "pause"}}
	assert.True(t, named.HasExplicitIdentity())

	anonymous := &domain.Node{Type: "Wait", Attributes: map[string]string{"duration": "5"}}
	assert.False(t, anonymous.HasExplicitIdentity())

	bare := &domain.Node{Type: "Wait"}
	assert.False(t, bare.HasExplicitIdentity())
}

func TestNode_Clone_IsDeep(t *testing.T) {
	original := &domain.Node{
		Type:        "Sequence",
		Kind:        domain.KindControl,
		IdentityKey: "Sequence[0]",
		Attributes:  map[string]string{"name": "root"},
		Children: []*domain.Node{
			{Type: "Wait", IdentityKey: "Wait[0]", Attributes: map[string]string{"duration": "5"}},
		},
	}

	cp := original.Clone()
	cp.Attributes["name"] = "changed"
	cp.Children[0].Attributes["duration"] = "99"
	cp.Children = append(cp.Children, &domain.Node{Type: "Log"})

	assert.Equal(t, "root", original.Attributes["name"])
	assert.Equal(t, "5", original.Children[0].Attributes["duration"])
	assert.Len(t, original.Children, 1)
}

func TestNode_Clone_Nil(t *testing.T) {
	var n *domain.Node
	assert.Nil(t, n.Clone())
}

func TestNode_Walk_DocumentOrder(t *testing.T) {
	root := &domain.Node{
		Type: "Sequence",
		Children: []*domain.Node{
			{Type: "Wait", Children: []*domain.Node{{Type: "Inner"}}},
			{Type: "Log"},
		},
	}

	var visited []string
	root.Walk(func(n *domain.Node) { visited = append(visited, n.Type) })
	assert.Equal(t, []string{"Sequence", "Wait", "Inner", "Log"}, visited)
}

func TestClassifyTag(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"Sequence", domain.KindControl},
		{"Fallback", domain.KindControl},
		{"ReactiveSequence", domain.KindControl},
		{"Inverter", domain.KindDecorator},
		{"RetryUntilSuccessful", domain.KindDecorator},
		{"SubTree", domain.KindSubtree},
		{"Condition", domain.KindCondition},
		{"NavigateToWaypoint", domain.KindAction},
		{"Wait", domain.KindAction},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.ClassifyTag(tt.tag), "tag %s", tt.tag)
	}
}
