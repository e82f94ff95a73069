package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/btkit/btdiff/pkg/domain"
)

func TestExpandedTree_Stats(t *testing.T) {
	tree := &domain.ExpandedTree{
		Root: &domain.Node{
			Type: "Sequence", Kind: domain.KindControl,
			Children: []*domain.Node{
				{Type: "Inverter", Kind: domain.KindDecorator, Children: []*domain.Node{
					{Type: "Condition", Kind: domain.KindCondition},
				}},
				{Type: "SubTree", Kind: domain.KindSubtree, Children: []*domain.Node{
					{Type: "Wait", Kind: domain.KindAction},
				}},
			},
		},
	}

	stats := tree.Stats()
	assert.Equal(t, 5, stats.TotalNodes)
	assert.Equal(t, 1, stats.ControlNodes)
	assert.Equal(t, 1, stats.DecoratorNodes)
	assert.Equal(t, 1, stats.ConditionNodes)
	assert.Equal(t, 1, stats.SubtreeNodes)
	assert.Equal(t, 1, stats.ActionNodes)
	assert.Equal(t, 2, stats.MaxDepth)
}

func TestExpandedTree_Stats_Empty(t *testing.T) {
	tree := &domain.ExpandedTree{}
	assert.Equal(t, domain.TreeStats{}, tree.Stats())
}
