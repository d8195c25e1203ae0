package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/utils"
)

type optionRef struct {
	group models.OptionGroup
	name  string
}

// ValidateSelection checks selected against the options item offers.
// Required groups need a selection, size and preparation take at most one
// option, add-ons take any number.
func ValidateSelection(item *models.MenuItem, selected []SelectedOption) error {
	offered := offeredOptions(item)

	counts := make(map[models.OptionGroup]int)
	for _, s := range selected {
		if _, ok := offered[optionRef{s.OptionGroup, s.OptionName}]; !ok {
			return fmt.Errorf("%w: %s does not offer %s option %q",
				utils.ErrInvalidCart, item.Name, s.OptionGroup, s.OptionName)
		}
		counts[s.OptionGroup]++
	}

	required := make(map[models.OptionGroup]bool)
	for _, opt := range offered {
		if opt.IsRequired {
			required[opt.OptionGroup] = true
		}
	}

	for group, n := range counts {
		if !group.MultiSelect() && n > 1 {
			return fmt.Errorf("%w: %s allows one %s option, got %d",
				utils.ErrInvalidCart, item.Name, group, n)
		}
	}
	for group := range required {
		if counts[group] == 0 {
			return fmt.Errorf("%w: %s requires a %s option",
				utils.ErrInvalidCart, item.Name, group)
		}
	}
	return nil
}

// PriceFor returns the item's base price plus the modifiers of the selected
// options as currently offered by item.
func PriceFor(item *models.MenuItem, selected []SelectedOption) (decimal.Decimal, error) {
	if err := ValidateSelection(item, selected); err != nil {
		return decimal.Zero, err
	}
	offered := offeredOptions(item)
	price := item.BasePrice
	for _, s := range selected {
		price = price.Add(offered[optionRef{s.OptionGroup, s.OptionName}].PriceModifier)
	}
	return price, nil
}

// NewCandidate validates and prices a selection for AddItem.
func NewCandidate(item *models.MenuItem, qty int, selected []SelectedOption, instructions string) (Candidate, error) {
	price, err := PriceFor(item, selected)
	if err != nil {
		return Candidate{}, err
	}

	offered := offeredOptions(item)
	opts := make([]SelectedOption, len(selected))
	for i, s := range selected {
		opts[i] = SelectedOption{
			OptionGroup:   s.OptionGroup,
			OptionName:    s.OptionName,
			PriceModifier: offered[optionRef{s.OptionGroup, s.OptionName}].PriceModifier,
		}
	}

	return Candidate{
		MenuItemID:          item.ID,
		Quantity:            qty,
		SelectedOptions:     opts,
		UnitPrice:           price,
		SpecialInstructions: instructions,
	}, nil
}

func offeredOptions(item *models.MenuItem) map[optionRef]models.ItemOption {
	offered := make(map[optionRef]models.ItemOption, len(item.Options))
	for _, opt := range item.Options {
		if !opt.IsActive {
			continue
		}
		offered[optionRef{opt.OptionGroup, opt.OptionName}] = opt
	}
	return offered
}
