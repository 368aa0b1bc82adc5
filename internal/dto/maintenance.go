package dto

// MergeAccountsRequest names the account to fold into another.
type MergeAccountsRequest struct {
	SourceAccountID string `json:"sourceAccountID" binding:"required"`
	TargetAccountID string `json:"targetAccountID" binding:"required"`
}

// ApplyTemplateRequest carries per-application overrides for a chart template.
type ApplyTemplateRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"omitempty,len=3"`
}

// ApplyTemplateResponse lists the accounts created by a template application.
type ApplyTemplateResponse struct {
	Created []AccountResponse `json:"created"`
}

// TemplateResponse describes an available chart template.
type TemplateResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}
