package model

// DeployPlan is everything one deployment run reconciles.
type DeployPlan struct {
	Pages     []PageSpec // Upserted in order.
	FrontSlug string     // Slug of the page bound as the static front page.
	Menu      MenuSpec
}
