package models

import (
	"fmt"
	"strings"
)

// Promotion types. Bogo promotions discount the "get" items and carry
// their own discount fields instead of promotionValue.
const (
	PromotionTypePercentage = "percentage"
	PromotionTypeFixed      = "fixed"
	PromotionTypeBogo       = "bogo"
)

const maxBogoProducts = 2

// PromotionInput is the payload accepted by promotion create and update.
type PromotionInput struct {
	Name               string   `json:"promotionName"`
	Description        string   `json:"description,omitempty"`
	ApplicationType    string   `json:"applicationType"`
	SelectedProducts   []string `json:"selectedProducts"`
	SelectedCategories []string `json:"selectedCategories"`
	PromotionType      string   `json:"promotionType"`
	PromotionValue     *float64 `json:"promotionValue,omitempty"`
	BuyQuantity        int      `json:"buyQuantity,omitempty"`
	GetQuantity        int      `json:"getQuantity,omitempty"`
	BogoDiscountType   string   `json:"bogoDiscountType,omitempty"`
	BogoDiscountValue  *float64 `json:"bogoDiscountValue,omitempty"`
	BogoPromotionImage string   `json:"bogoPromotionImage,omitempty"`
	MinQuantity        *int     `json:"minQuantity,omitempty"`
	ValidFrom          Date     `json:"validFrom"`
	ValidTo            Date     `json:"validTo"`
	Status             string   `json:"status"`
}

// Promotion is the detail view returned by create, get, update and the
// active-promotions endpoint.
type Promotion struct {
	ID int `json:"id"`
	PromotionInput
}

// BogoProduct names one of the products a bogo promotion applies to.
type BogoProduct struct {
	ProductName string `json:"product_name"`
}

// PromotionListItem is the list-view row. The bogo detail fields are
// populated only by the bogo listing endpoint.
type PromotionListItem struct {
	ID                 int           `json:"id"`
	Name               string        `json:"name"`
	Type               string        `json:"type"`
	Value              string        `json:"value"`
	Products           string        `json:"products"`
	ValidFrom          string        `json:"validFrom"`
	ValidTo            string        `json:"validTo"`
	Status             string        `json:"status"`
	BogoProducts       []BogoProduct `json:"bogoProducts,omitempty"`
	BuyQuantity        *int          `json:"buyQuantity,omitempty"`
	GetQuantity        *int          `json:"getQuantity,omitempty"`
	BogoDiscountType   string        `json:"bogoDiscountType,omitempty"`
	BogoDiscountValue  *float64      `json:"bogoDiscountValue,omitempty"`
	BogoPromotionImage string        `json:"bogoPromotionImage,omitempty"`
	Description        string        `json:"description,omitempty"`
}

// Validate applies defaults, forces bogo promotions onto specific
// products, and checks the payload before any storage access.
func (in *PromotionInput) Validate() error {
	if in.ApplicationType == "" {
		in.ApplicationType = ApplicationSpecificProducts
	}
	if in.BuyQuantity == 0 {
		in.BuyQuantity = 1
	}
	if in.GetQuantity == 0 {
		in.GetQuantity = 1
	}
	if in.PromotionType == PromotionTypeBogo {
		in.ApplicationType = ApplicationSpecificProducts
	}

	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Msg: "promotionName is required"}
	}
	if len(in.Name) > maxNameLength {
		return &ValidationError{Msg: fmt.Sprintf("promotionName must be at most %d characters", maxNameLength)}
	}
	if !validApplicationType(in.ApplicationType) {
		return &ValidationError{Msg: "applicationType must be one of all_products, specific_categories, specific_products"}
	}
	if !validStatus(in.Status) {
		return &ValidationError{Msg: "status must be one of active, inactive, expired"}
	}
	if in.BuyQuantity < 1 || in.GetQuantity < 1 {
		return &ValidationError{Msg: "buyQuantity and getQuantity must be 1 or greater"}
	}
	if in.MinQuantity != nil && *in.MinQuantity < 1 {
		return &ValidationError{Msg: "minQuantity must be 1 or greater"}
	}
	if in.ValidFrom.IsZero() || in.ValidTo.IsZero() {
		return &ValidationError{Msg: "validFrom and validTo are required"}
	}
	if in.ValidTo.Before(in.ValidFrom.Time) {
		return &ValidationError{Msg: "validTo must not be before validFrom"}
	}

	switch in.PromotionType {
	case PromotionTypeBogo:
		if len(in.SelectedProducts) == 0 {
			return &ValidationError{Msg: "at least one product must be selected for BOGO"}
		}
		if len(in.SelectedProducts) > maxBogoProducts {
			return &ValidationError{Msg: fmt.Sprintf("BOGO promotions can have a maximum of %d products", maxBogoProducts)}
		}
		if in.BogoDiscountType == "" || in.BogoDiscountValue == nil {
			return &ValidationError{Msg: "BOGO discount type and value are required"}
		}
		if in.BogoDiscountType != DiscountTypePercentage && in.BogoDiscountType != DiscountTypeFixedAmount {
			return &ValidationError{Msg: "bogoDiscountType must be one of percentage, fixed_amount"}
		}
		if *in.BogoDiscountValue <= 0 {
			return &ValidationError{Msg: "bogoDiscountValue must be greater than 0"}
		}
	case PromotionTypePercentage, PromotionTypeFixed:
		if in.PromotionValue == nil {
			return &ValidationError{Msg: "promotion value is required"}
		}
		if *in.PromotionValue <= 0 {
			return &ValidationError{Msg: "promotionValue must be greater than 0"}
		}
		if in.ApplicationType == ApplicationSpecificCategories && len(in.SelectedCategories) == 0 {
			return &ValidationError{Msg: "at least one category must be selected"}
		}
		if in.ApplicationType == ApplicationSpecificProducts && len(in.SelectedProducts) == 0 {
			return &ValidationError{Msg: "at least one product must be selected"}
		}
	default:
		return &ValidationError{Msg: "promotionType must be one of percentage, fixed, bogo"}
	}
	return nil
}
