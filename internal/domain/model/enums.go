package model

// PageStatus represents the publication state of a stored page.
type PageStatus string

const (
	PageStatusPublish PageStatus = "publish"
	PageStatusDraft   PageStatus = "draft"
)

// UpsertAction records which branch a page upsert took.
type UpsertAction string

const (
	UpsertActionCreated UpsertAction = "created"
	UpsertActionUpdated UpsertAction = "updated"
	UpsertActionFailed  UpsertAction = "failed"
)

// MenuOutcome records what the menu bootstrap did during a run.
type MenuOutcome string

const (
	MenuOutcomeCreated  MenuOutcome = "created"
	MenuOutcomeSkipped  MenuOutcome = "skipped"  // Menu already present, nothing touched.
	MenuOutcomeRepaired MenuOutcome = "repaired" // Missing items appended in repair mode.
	MenuOutcomeDeferred MenuOutcome = "deferred" // A target page failed; creation postponed to the next run.
	MenuOutcomeFailed   MenuOutcome = "failed"
)
