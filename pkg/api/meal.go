package api

// Dates are ISO calendar dates (2006-01-02). An empty date means today.

type LogEntryRequest struct {
	Description string  `json:"description"`
	Macros      *Macros `json:"macros"`
	ImageUrl    string  `json:"imageUrl,omitempty"`
	Date        string  `json:"date,omitempty"`
	GroupName   string  `json:"groupName,omitempty"`
}

type LogEntryResponse struct {
	Entry *MealEntry `json:"entry"`
}

type LogQuickItemRequest struct {
	QuickItemId string  `json:"quickItemId"`
	Quantity    float64 `json:"quantity"`
	Date        string  `json:"date,omitempty"`
	GroupName   string  `json:"groupName,omitempty"`
}

type LogQuickItemResponse struct {
	Entry *MealEntry `json:"entry"`
}

type AnalyzeAndLogRequest struct {
	// Image is set for photo analysis, Text for a typed description.
	Image      []byte   `json:"image,omitempty"`
	MimeType   string   `json:"mimeType,omitempty"`
	Text       string   `json:"text,omitempty"`
	Hints      []string `json:"hints,omitempty"`
	Exclusions []string `json:"exclusions,omitempty"`
	ImageUrl   string   `json:"imageUrl,omitempty"`

	// PeopleSharing > 0 records only MyPortion of PeopleSharing shares.
	MyPortion     float64 `json:"myPortion,omitempty"`
	PeopleSharing float64 `json:"peopleSharing,omitempty"`

	Date      string `json:"date,omitempty"`
	GroupName string `json:"groupName,omitempty"`
}

type AnalyzeAndLogResponse struct {
	Entry *MealEntry `json:"entry"`
}

// CorrectEntryRequest changes only the fields that are present.
type CorrectEntryRequest struct {
	EntryId     string   `json:"entryId"`
	Description *string  `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Calories    *int32   `json:"calories,omitempty"`
	Protein     *float64 `json:"protein,omitempty"`
	Carbs       *float64 `json:"carbs,omitempty"`
	Fat         *float64 `json:"fat,omitempty"`
	Date        *string  `json:"date,omitempty"`
}

type CorrectEntryResponse struct {
	Entry *MealEntry `json:"entry"`
}

type DeleteEntryRequest struct {
	EntryId string `json:"entryId"`
}

type DeleteEntryResponse struct{}

type GetDayRequest struct {
	Date string `json:"date,omitempty"`
}

type GetDayResponse struct {
	Meals   []*GroupedMeal `json:"meals"`
	Summary *DailySummary  `json:"summary"`
	// Progress is absent until the user has saved a profile.
	Progress *Progress `json:"progress,omitempty"`
}

type GetRangeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type GetRangeResponse struct {
	Days []*DailySummary `json:"days"`
}

type CreateGroupRequest struct {
	EntryIds  []string `json:"entryIds"`
	GroupName string   `json:"groupName"`
}

type CreateGroupResponse struct {
	GroupId string `json:"groupId"`
}

type AddToGroupRequest struct {
	EntryIds []string `json:"entryIds"`
	GroupId  string   `json:"groupId"`
}

type AddToGroupResponse struct {
	TotalItems int32 `json:"totalItems"`
}

type FindGroupByNameRequest struct {
	GroupName string `json:"groupName"`
	Date      string `json:"date,omitempty"`
}

type FindGroupByNameResponse struct {
	GroupId string `json:"groupId,omitempty"`
	Found   bool   `json:"found"`
}

type RemoveFromGroupRequest struct {
	EntryId string `json:"entryId"`
}

type RemoveFromGroupResponse struct{}

type DissolveGroupRequest struct {
	GroupId string `json:"groupId"`
}

type DissolveGroupResponse struct{}

type DeleteGroupRequest struct {
	GroupId string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type GetGroupingOptionsRequest struct {
	EntryId string `json:"entryId"`
	Date    string `json:"date,omitempty"`
}

type GetGroupingOptionsResponse struct {
	Ungrouped []*MealEntry    `json:"ungrouped"`
	Groups    []*GroupSummary `json:"groups"`
}
