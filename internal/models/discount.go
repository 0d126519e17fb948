package models

import (
	"fmt"
	"strings"
)

// Application types shared by discounts and promotions.
const (
	ApplicationAllProducts        = "all_products"
	ApplicationSpecificCategories = "specific_categories"
	ApplicationSpecificProducts   = "specific_products"
)

// Discount value types.
const (
	DiscountTypePercentage  = "percentage"
	DiscountTypeFixedAmount = "fixed_amount"
)

// Entity statuses. Rows transition to StatusExpired automatically once
// their validTo date has passed and are never automatically reverted.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusExpired  = "expired"
)

const maxNameLength = 255

// DiscountInput is the payload accepted by discount create and update.
type DiscountInput struct {
	Name               string   `json:"discountName"`
	ApplicationType    string   `json:"applicationType"`
	SelectedCategories []string `json:"selectedCategories"`
	SelectedProducts   []string `json:"selectedProducts"`
	DiscountType       string   `json:"discountType"`
	DiscountValue      float64  `json:"discountValue"`
	MinSpend           float64  `json:"minSpend"`
	ValidFrom          Date     `json:"validFrom"`
	ValidTo            Date     `json:"validTo"`
	Status             string   `json:"status"`
}

// Discount is the detail view returned by create, get and update.
type Discount struct {
	ID int `json:"id"`
	DiscountInput
}

// DiscountListItem is the list-view row with pre-formatted display strings.
type DiscountListItem struct {
	ID                   int      `json:"id"`
	Name                 string   `json:"name"`
	Application          string   `json:"application"`
	Discount             string   `json:"discount"`
	MinSpend             float64  `json:"minSpend"`
	ValidFrom            string   `json:"validFrom"`
	ValidTo              string   `json:"validTo"`
	Status               string   `json:"status"`
	Type                 string   `json:"type"`
	ApplicationType      string   `json:"application_type"`
	ApplicableProducts   []string `json:"applicable_products"`
	ApplicableCategories []string `json:"applicable_categories"`
}

func validApplicationType(t string) bool {
	switch t {
	case ApplicationAllProducts, ApplicationSpecificCategories, ApplicationSpecificProducts:
		return true
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusExpired:
		return true
	}
	return false
}

// Validate checks the payload before any storage access.
func (in *DiscountInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Msg: "discountName is required"}
	}
	if len(in.Name) > maxNameLength {
		return &ValidationError{Msg: fmt.Sprintf("discountName must be at most %d characters", maxNameLength)}
	}
	if !validApplicationType(in.ApplicationType) {
		return &ValidationError{Msg: "applicationType must be one of all_products, specific_categories, specific_products"}
	}
	if in.DiscountType != DiscountTypePercentage && in.DiscountType != DiscountTypeFixedAmount {
		return &ValidationError{Msg: "discountType must be one of percentage, fixed_amount"}
	}
	if in.DiscountValue <= 0 {
		return &ValidationError{Msg: "discountValue must be greater than 0"}
	}
	if in.MinSpend < 0 {
		return &ValidationError{Msg: "minSpend must be 0 or greater"}
	}
	if !validStatus(in.Status) {
		return &ValidationError{Msg: "status must be one of active, inactive, expired"}
	}
	if in.ValidFrom.IsZero() || in.ValidTo.IsZero() {
		return &ValidationError{Msg: "validFrom and validTo are required"}
	}
	if in.ValidTo.Before(in.ValidFrom.Time) {
		return &ValidationError{Msg: "validTo must not be before validFrom"}
	}
	return nil
}
