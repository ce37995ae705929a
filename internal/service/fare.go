package service

import (
	"fmt"

	"carpool/internal/model"
)

// AnyPass reports whether the driver or any passenger holds a pass.
func AnyPass(driver *model.User, passengers []model.User) bool {
	if driver != nil && driver.HasPass {
		return true
	}
	for _, p := range passengers {
		if p.HasPass {
			return true
		}
	}
	return false
}

// PassengerPrice is what each passenger of a car pays. The driver never pays.
func PassengerPrice(cfg *model.Config, anyPass bool) int {
	if anyPass {
		return cfg.PriceWithPassCents
	}
	return cfg.PriceWithoutPassCents
}

// FormatCents renders cents as dollars, e.g. 300 -> "$3.00". The sign
// follows the dollar symbol: -50 -> "$-0.50".
func FormatCents(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("$%s%d.%02d", sign, cents/100, cents%100)
}
