package btdiff_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/btkit/btdiff"
)

// ExampleAnalyzer_CompareDocuments compares two in-memory versions of a
// behavior tree and prints the classified changes.
func ExampleAnalyzer_CompareDocuments() {
	oldDoc := `
<Sequence name="patrol">
  <Wait name="pause" duration="2.0"/>
  <NavigateTo goal="waypoint_a"/>
</Sequence>`
	newDoc := `
<Sequence name="patrol">
  <Wait name="pause" duration="3.0"/>
  <NavigateTo goal="waypoint_a"/>
  <Log msg="done"/>
</Sequence>`

	analyzer := btdiff.New()
	res, err := analyzer.CompareDocuments(
		btdiff.Document{Text: []byte(oldDoc), Source: "v1.xml"},
		btdiff.Document{Text: []byte(newDoc), Source: "v2.xml"},
	)
	if err != nil {
		log.Fatal(err)
	}

	for _, e := range res.Changes() {
		fmt.Printf("%s %s\n", e.ChangeKind, strings.Join(e.Path, "/"))
	}
	// Output:
	// modified Sequence:patrol/Wait:pause
	// added Sequence:patrol/Log[2]
}

// ExampleAnalyzer_ParseDocument expands a document's subtree references and
// reports its composition.
func ExampleAnalyzer_ParseDocument() {
	doc := `
<root main_tree_to_execute="MainTree">
  <BehaviorTree ID="MainTree">
    <Sequence>
      <SubTree ID="Recovery"/>
    </Sequence>
  </BehaviorTree>
  <BehaviorTree ID="Recovery">
    <Fallback>
      <Retreat/>
    </Fallback>
  </BehaviorTree>
</root>`

	expanded, err := btdiff.New().ParseDocument(btdiff.Document{Text: []byte(doc), Source: "robot.xml"})
	if err != nil {
		log.Fatal(err)
	}

	stats := expanded.Stats()
	fmt.Printf("%d nodes, %d subtree boundaries, depth %d\n",
		stats.TotalNodes, stats.SubtreeNodes, stats.MaxDepth)
	// Output:
	// 4 nodes, 1 subtree boundaries, depth 3
}
