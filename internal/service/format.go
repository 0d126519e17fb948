package service

import (
	"fmt"
	"strings"

	"github.com/bleupos/promo-service/internal/models"
)

const currencySymbol = "₱"

func discountListItem(d *models.Discount) models.DiscountListItem {
	application := "All Products"
	switch d.ApplicationType {
	case models.ApplicationSpecificProducts:
		application = fmt.Sprintf("%d Product(s)", len(d.SelectedProducts))
	case models.ApplicationSpecificCategories:
		application = fmt.Sprintf("%d Category(s)", len(d.SelectedCategories))
	}

	discount := fmt.Sprintf("%s%.2f", currencySymbol, d.DiscountValue)
	if d.DiscountType == models.DiscountTypePercentage {
		discount = fmt.Sprintf("%.1f%%", d.DiscountValue)
	}

	return models.DiscountListItem{
		ID:                   d.ID,
		Name:                 d.Name,
		Application:          application,
		Discount:             discount,
		MinSpend:             d.MinSpend,
		ValidFrom:            d.ValidFrom.String(),
		ValidTo:              d.ValidTo.String(),
		Status:               d.Status,
		Type:                 d.DiscountType,
		ApplicationType:      d.ApplicationType,
		ApplicableProducts:   orEmpty(d.SelectedProducts),
		ApplicableCategories: orEmpty(d.SelectedCategories),
	}
}

// promotionListItem shapes one list-view row. When detailed is set, the
// bogo detail fields are included as the bogo listing endpoint returns
// them.
func promotionListItem(p *models.Promotion, detailed bool) models.PromotionListItem {
	item := models.PromotionListItem{
		ID:        p.ID,
		Name:      p.Name,
		Type:      promotionTypeLabel(p),
		Value:     promotionValueLabel(p),
		Products:  promotionProductsLabel(p),
		ValidFrom: p.ValidFrom.String(),
		ValidTo:   p.ValidTo.String(),
		Status:    p.Status,
	}

	if p.PromotionType == models.PromotionTypeBogo && p.ApplicationType == models.ApplicationSpecificProducts {
		bogo := make([]models.BogoProduct, 0, len(p.SelectedProducts))
		for _, name := range p.SelectedProducts {
			bogo = append(bogo, models.BogoProduct{ProductName: name})
		}
		item.BogoProducts = bogo
	}

	if detailed {
		buy, get := p.BuyQuantity, p.GetQuantity
		item.BuyQuantity = &buy
		item.GetQuantity = &get
		item.BogoDiscountType = p.BogoDiscountType
		item.BogoDiscountValue = p.BogoDiscountValue
		item.BogoPromotionImage = p.BogoPromotionImage
		item.Description = p.Description
	}
	return item
}

func promotionTypeLabel(p *models.Promotion) string {
	if p.PromotionType == models.PromotionTypeBogo {
		return fmt.Sprintf("BOGO (%d+%d)", p.BuyQuantity, p.GetQuantity)
	}
	return strings.ToUpper(p.PromotionType)
}

func promotionValueLabel(p *models.Promotion) string {
	switch p.PromotionType {
	case models.PromotionTypePercentage:
		return fmt.Sprintf("%.1f%%", deref(p.PromotionValue))
	case models.PromotionTypeFixed:
		return fmt.Sprintf("%s%.2f", currencySymbol, deref(p.PromotionValue))
	case models.PromotionTypeBogo:
		if p.BogoDiscountType == models.DiscountTypePercentage {
			return fmt.Sprintf("%.1f%% off", deref(p.BogoDiscountValue))
		}
		return fmt.Sprintf("%s%.2f off", currencySymbol, deref(p.BogoDiscountValue))
	}
	return ""
}

func promotionProductsLabel(p *models.Promotion) string {
	switch p.ApplicationType {
	case models.ApplicationAllProducts:
		return "All Products"
	case models.ApplicationSpecificCategories:
		return joinOrNA(p.SelectedCategories)
	default:
		return joinOrNA(p.SelectedProducts)
	}
}

func joinOrNA(names []string) string {
	if len(names) == 0 {
		return "N/A"
	}
	return strings.Join(names, ", ")
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func orEmpty(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
