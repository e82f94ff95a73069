package btdiff_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btkit/btdiff"
	"github.com/btkit/btdiff/pkg/domain"
)

const oldPatrol = `
<root main_tree_to_execute="MainTree">
  <BehaviorTree ID="MainTree">
    <Sequence name="top">
      <Wait name="pause" duration="5"/>
      <SubTree ID="Patrol"/>
    </Sequence>
  </BehaviorTree>
  <BehaviorTree ID="Patrol">
    <NavigateTo goal="dock"/>
  </BehaviorTree>
</root>`

const newPatrol = `
<root main_tree_to_execute="MainTree">
  <BehaviorTree ID="MainTree">
    <Sequence name="top">
      <Wait name="pause" duration="10"/>
      <SubTree ID="Patrol"/>
    </Sequence>
  </BehaviorTree>
  <BehaviorTree ID="Patrol">
    <NavigateTo goal="dock"/>
  </BehaviorTree>
</root>`

func TestAnalyzer_CompareDocuments(t *testing.T) {
	res, err := btdiff.New().CompareDocuments(
		btdiff.Document{Text: []byte(oldPatrol), Source: "old.xml"},
		btdiff.Document{Text: []byte(newPatrol), Source: "new.xml"},
	)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Summary.Modified)
	assert.True(t, res.Summary.Changed())
	assert.Equal(t, "old.xml", res.OldSource)

	changes := res.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "Wait:pause", changes[0].IdentityKey)
}

func TestAnalyzer_ParseDocument(t *testing.T) {
	expanded, err := btdiff.New().ParseDocument(btdiff.Document{
		Text: []byte(oldPatrol), Source: "old.xml",
	})
	require.NoError(t, err)

	stats := expanded.Stats()
	assert.Equal(t, 1, stats.SubtreeNodes)
	assert.Equal(t, 4, stats.TotalNodes)
}

func TestAnalyzer_ParseErrorSurfacesDirectly(t *testing.T) {
	_, err := btdiff.New().CompareDocuments(
		btdiff.Document{Text: []byte("<a><b></a>"), Source: "bad.xml"},
		btdiff.Document{Text: []byte("<Wait/>"), Source: "new.xml"},
	)
	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "bad.xml", parseErr.Source)
}

func TestAnalyzer_ResolverErrorsWrappedPerSide(t *testing.T) {
	bad := `<Sequence><SubTree ID="Ghost"/></Sequence>`

	_, err := btdiff.New().CompareDocuments(
		btdiff.Document{Text: []byte("<Wait/>"), Source: "old.xml"},
		btdiff.Document{Text: []byte(bad), Source: "new.xml"},
	)
	var inputErr *domain.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "new", inputErr.Source)

	var unresolved *domain.UnresolvedSubtreeError
	assert.ErrorAs(t, err, &unresolved)
}

func TestAnalyzer_Options(t *testing.T) {
	t.Run("ignored attributes", func(t *testing.T) {
		res, err := btdiff.New(btdiff.WithIgnoredAttributes("duration")).CompareDocuments(
			btdiff.Document{Text: []byte(oldPatrol), Source: "old.xml"},
			btdiff.Document{Text: []byte(newPatrol), Source: "new.xml"},
		)
		require.NoError(t, err)
		assert.False(t, res.Summary.Changed())
	})

	t.Run("tree selection", func(t *testing.T) {
		expanded, err := btdiff.New(btdiff.WithTree("Patrol")).ParseDocument(btdiff.Document{
			Text: []byte(oldPatrol), Source: "old.xml",
		})
		require.NoError(t, err)
		assert.Equal(t, "NavigateTo", expanded.Root.Type)
	})

	t.Run("expansion depth", func(t *testing.T) {
		doc := `
<root main_tree_to_execute="A">
  <BehaviorTree ID="A"><SubTree ID="B"/></BehaviorTree>
  <BehaviorTree ID="B"><Wait/></BehaviorTree>
</root>`
		_, err := btdiff.New(btdiff.WithMaxExpansionDepth(1)).ParseDocument(btdiff.Document{
			Text: []byte(doc), Source: "deep.xml",
		})
		require.NoError(t, err)
	})
}

func TestAnalyzer_CompareFiles(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.xml")
	newPath := filepath.Join(dir, "new.xml")
	require.NoError(t, os.WriteFile(oldPath, []byte(oldPatrol), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte(newPatrol), 0o644))

	res, err := btdiff.New().CompareFiles(oldPath, newPath)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Modified)
	assert.Equal(t, oldPath, res.OldSource)

	_, err = btdiff.New().CompareFiles(filepath.Join(dir, "missing.xml"), newPath)
	assert.Error(t, err)
}

// mapSource serves revision content from a map, standing in for git.
type mapSource map[string]string

func (m mapSource) Read(_ context.Context, path, revision string) ([]byte, error) {
	content, ok := m[revision+":"+path]
	if !ok {
		return nil, fmt.Errorf("read %s at %s: %w", path, revision, domain.ErrContentNotFound)
	}
	return []byte(content), nil
}

func TestAnalyzer_CompareRevisions(t *testing.T) {
	src := mapSource{
		"HEAD~1:tree.xml": oldPatrol,
		"HEAD:tree.xml":   newPatrol,
	}

	res, err := btdiff.New().CompareRevisions(context.Background(), src, "tree.xml", "HEAD~1", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Modified)
	assert.Equal(t, "tree.xml@HEAD~1", res.OldSource)
	assert.Equal(t, "tree.xml@HEAD", res.NewSource)

	_, err = btdiff.New().CompareRevisions(context.Background(), src, "tree.xml", "v0", "HEAD")
	assert.ErrorIs(t, err, domain.ErrContentNotFound)
}
