package locator

// Catalog keys.
const (
	LoginIframe       = "login.iframe"
	LoginUsername     = "login.username"
	LoginPassword     = "login.password"
	LoginSigninButton = "login.signin_button"

	SearchKeywordsInput       = "search.keywords_input"
	SearchGeographyFilter     = "search.geography_filter"
	SearchGeographyInput      = "search.geography_input"
	SearchGeographySuggestion = "search.geography_suggestion"
	SearchResultItems         = "search.result_items"

	ResultPageCount     = "result_page.result_count"
	ResultPageNoResults = "result_page.no_results"

	CardName              = "result_item.name"
	CardCurrentWorkplace  = "result_item.current_workplace"
	CardDuration          = "result_item.duration"
	CardLocation          = "result_item.location"
	CardPreviousWorkplace = "result_item.previous_workplace"
	CardShowMore          = "result_item.show_more"
	CardProfileLink       = "result_item.profile_link"

	ProfileName               = "profile.name"
	ProfilePhoto              = "profile.photo"
	ProfileSummary            = "profile.summary"
	ProfileSummaryShowMore    = "profile.summary_show_more"
	ProfileSummaryModal       = "profile.summary_modal"
	ProfileSummaryModalOK     = "profile.summary_modal_ok"
	ProfileLocation           = "profile.location"
	ProfileConnections        = "profile.connections"
	ProfileContacts           = "profile.contacts"
	ProfileContactText        = "profile.contact_text"
	ProfileContactLink        = "profile.contact_link"
	ProfileCurrentWorkplace   = "profile.current_workplace"
	ProfileExperienceShowMore = "profile.experience_show_more"
	ProfilePositions          = "profile.positions"
	ProfileEducationHistory   = "profile.education_history"
	ProfileTopcardEducations  = "profile.topcard_educations"
	ProfileSkills             = "profile.skills"
	ProfileSkillsShowMore     = "profile.skills_show_more"
	ProfileSkillPills         = "profile.skill_pills"
	ProfileRecommendations    = "profile.recommendations"
	ProfileAccomplishments    = "profile.accomplishments"
	ProfileInterests          = "profile.interests"
	ProfileInterestLink       = "profile.interest_link"
	ProfileCurrentPosition    = "profile.current_position"
	ProfileDuration           = "profile.duration"
)

// CrawlKeys lists every key the search, traversal and extraction code reads.
var CrawlKeys = []string{
	SearchKeywordsInput, SearchGeographyFilter, SearchGeographyInput,
	SearchGeographySuggestion, SearchResultItems,
	ResultPageNoResults,
	CardName, CardCurrentWorkplace, CardDuration, CardLocation,
	CardPreviousWorkplace, CardShowMore, CardProfileLink,
	ProfileName, ProfilePhoto, ProfileSummary, ProfileSummaryShowMore,
	ProfileSummaryModal, ProfileSummaryModalOK, ProfileLocation,
	ProfileConnections, ProfileContacts, ProfileContactText, ProfileContactLink,
	ProfileCurrentWorkplace, ProfileExperienceShowMore, ProfilePositions,
	ProfileEducationHistory, ProfileTopcardEducations, ProfileSkills,
	ProfileSkillsShowMore, ProfileSkillPills, ProfileRecommendations,
	ProfileAccomplishments, ProfileInterests, ProfileInterestLink,
	ProfileCurrentPosition, ProfileDuration,
}

// LoginKeys lists the keys the login flow reads.
var LoginKeys = []string{LoginIframe, LoginUsername, LoginPassword, LoginSigninButton}
