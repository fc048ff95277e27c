package model

// Site setting keys understood by every SettingsStore implementation.
const (
	SettingShowOnFront = "show_on_front"
	SettingPageOnFront = "page_on_front"
)

// ShowOnFrontPage is the SettingShowOnFront value selecting a static front page.
const ShowOnFrontPage = "page"
