package domain

// NodeKind constants classify a behavior-tree element by its role.
const (
	// KindControl orders the execution of its children (Sequence, Fallback...).
	KindControl = "control"
	// KindDecorator wraps a single child and alters its result.
	KindDecorator = "decorator"
	// KindCondition checks a predicate without side effects.
	KindCondition = "condition"
	// KindAction performs work (the default for custom nodes).
	KindAction = "action"
	// KindSubtree stands in for a separately defined, named subtree.
	KindSubtree = "subtree"
)

// SubtreeTag is the element tag that references a named subtree definition.
const SubtreeTag = "SubTree"

// DefinitionTag is the element tag that declares a named, reusable tree.
const DefinitionTag = "BehaviorTree"

// MainTreeID is the conventional name of the entry tree in multi-tree documents.
const MainTreeID = "MainTree"

// controlTags lists the common control-flow tags of BehaviorTree.CPP.
var controlTags = map[string]struct{}{
	"Sequence": {}, "Selector": {}, "Fallback": {}, "Parallel": {},
	"ReactiveSequence": {}, "ReactiveFallback": {}, "IfThenElse": {},
	"WhileDoElse": {}, "ForEach": {}, "Switch": {}, "Control": {},
}

// decoratorTags lists the common decorator tags.
var decoratorTags = map[string]struct{}{
	"Inverter": {}, "ForceSuccess": {}, "ForceFailure": {}, "Repeat": {},
	"Retry": {}, "RetryUntilSuccessful": {}, "Timeout": {}, "Delay": {},
	"KeepRunningUntilFailure": {}, "BlackboardPrecondition": {}, "Decorator": {},
}

// ClassifyTag maps an element tag to its NodeKind.
// Unknown tags default to KindAction, since custom nodes are usually actions.
func ClassifyTag(tag string) string {
	if _, ok := controlTags[tag]; ok {
		return KindControl
	}
	if _, ok := decoratorTags[tag]; ok {
		return KindDecorator
	}
	switch tag {
	case SubtreeTag:
		return KindSubtree
	case "Condition":
		return KindCondition
	}
	return KindAction
}
