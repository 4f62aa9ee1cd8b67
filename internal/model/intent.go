package model

// IntentKind discriminates the Intent variants. The values double as the
// action vocabulary the classifier prompt asks the model to use.
type IntentKind string

const (
	IntentAdd     IntentKind = "add"
	IntentRemove  IntentKind = "remove"
	IntentUpdate  IntentKind = "update"
	IntentQuery   IntentKind = "query"
	IntentUnknown IntentKind = "unknown"
)

// Intent is the structured, validated representation of a user request.
// Exactly one payload group is meaningful, selected by Kind. Intents are
// built once per request and never persisted.
type Intent struct {
	Kind IntentKind

	// Contents holds the item texts to insert (Kind == IntentAdd).
	Contents []string
	// Matchers holds the item texts to resolve and delete (Kind == IntentRemove).
	Matchers []string
	// From/To describe a content rewrite (Kind == IntentUpdate).
	From string
	To   string
	// Filter optionally narrows a listing (Kind == IntentQuery).
	Filter string
	// Reason explains why the request could not be mapped (Kind == IntentUnknown).
	Reason string
}

// AddIntent builds an intent that inserts the given contents in order.
func AddIntent(contents ...string) Intent {
	return Intent{Kind: IntentAdd, Contents: contents}
}

// RemoveIntent builds an intent that deletes the items matching the given texts.
func RemoveIntent(matchers ...string) Intent {
	return Intent{Kind: IntentRemove, Matchers: matchers}
}

// UpdateIntent builds an intent that rewrites one item's content.
func UpdateIntent(from, to string) Intent {
	return Intent{Kind: IntentUpdate, From: from, To: to}
}

// QueryIntent builds a read-only listing intent. filter may be empty.
func QueryIntent(filter string) Intent {
	return Intent{Kind: IntentQuery, Filter: filter}
}

// UnknownIntent builds the degraded intent used whenever the model output
// cannot be mapped onto the action vocabulary.
func UnknownIntent(reason string) Intent {
	return Intent{Kind: IntentUnknown, Reason: reason}
}

// ActionType categorizes what an execution did, which tells the caller
// whether its view of the list is stale.
type ActionType string

const (
	ActionMutation ActionType = "mutation"
	ActionQuery    ActionType = "query"
	ActionNone     ActionType = "none"
)

// ExecutionResult is the outcome of applying one Intent.
type ExecutionResult struct {
	Success    bool
	Message    string
	ActionType ActionType

	// AffectedItems holds the items the operation touched: inserted items
	// for add/update, deleted items for remove, the listing for query.
	AffectedItems []Item

	// Snapshot is the owner's full content list as of the end of the
	// transaction. The suggestion step filters against it without a
	// second store read.
	Snapshot []string
}
