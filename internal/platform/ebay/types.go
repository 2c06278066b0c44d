package ebay

// apiSearchResponse is the Browse API item_summary/search payload, reduced
// to the fields a listing needs.
type apiSearchResponse struct {
	Total         int              `json:"total"`
	Limit         int              `json:"limit"`
	Offset        int              `json:"offset"`
	Next          string           `json:"next"`
	ItemSummaries []apiItemSummary `json:"itemSummaries"`
}

type apiAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type apiItemSummary struct {
	ItemID          string    `json:"itemId"`
	Title           string    `json:"title"`
	Price           apiAmount `json:"price"`
	ItemWebURL      string    `json:"itemWebUrl"`
	Condition       string    `json:"condition"`
	ConditionID     string    `json:"conditionId"`
	BuyingOptions   []string  `json:"buyingOptions"`
	ItemCreatedDate string    `json:"itemCreationDate"`
	Image           struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image"`
	Seller struct {
		Username           string `json:"username"`
		FeedbackPercentage string `json:"feedbackPercentage"`
		FeedbackScore      int    `json:"feedbackScore"`
	} `json:"seller"`
	ItemLocation struct {
		Country    string `json:"country"`
		City       string `json:"city"`
		PostalCode string `json:"postalCode"`
	} `json:"itemLocation"`
	ShippingOptions []struct {
		ShippingCostType string    `json:"shippingCostType"`
		ShippingCost     apiAmount `json:"shippingCost"`
	} `json:"shippingOptions"`
}
