package api

type CreateQuickItemRequest struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	ServingSize float64 `json:"servingSize,omitempty"`
	Macros      *Macros `json:"macros"`
	ImageUrl    string  `json:"imageUrl,omitempty"`
}

type CreateQuickItemResponse struct {
	Item *QuickItem `json:"item"`
}

type GetQuickItemRequest struct {
	ItemId string `json:"itemId"`
}

type GetQuickItemResponse struct {
	Item *QuickItem `json:"item"`
}

type ListQuickItemsRequest struct{}

type ListQuickItemsResponse struct {
	Items []*QuickItem `json:"items"`
}

type UpdateQuickItemRequest struct {
	ItemId      string  `json:"itemId"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	ServingSize float64 `json:"servingSize,omitempty"`
	Macros      *Macros `json:"macros"`
	ImageUrl    string  `json:"imageUrl,omitempty"`
}

type UpdateQuickItemResponse struct {
	Item *QuickItem `json:"item"`
}

type DeleteQuickItemRequest struct {
	ItemId string `json:"itemId"`
}

type DeleteQuickItemResponse struct{}
