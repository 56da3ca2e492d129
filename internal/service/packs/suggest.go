package packs

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// MaxSuggestions максимум подсказок на корзину
const MaxSuggestions = 2

// Suggest возвращает правила, которым корзине не хватает ровно одной категории
// Порядок: сумма скидки (убыв.), затем id. Пустая корзина подсказок не получает
func Suggest(cart domain.Cart, rules []*domain.DiscountRule, asOf time.Time) []domain.PackSuggestion {
	out := []domain.PackSuggestion{}
	if len(cart.Lines) == 0 {
		return out
	}

	checkDate := types.DateOnly(asOf)
	inCart := make(map[domain.Category]struct{}, len(cart.Lines))
	for _, line := range cart.Lines {
		inCart[line.Category] = struct{}{}
	}

	candidates := make([]*domain.DiscountRule, 0, len(rules))
	missing := make(map[int64]domain.Category)
	for _, rule := range rules {
		if rule == nil || rule.Validate() != nil || !rule.ActiveOn(checkDate) {
			continue
		}

		var absent []domain.Category
		for _, c := range rule.RequiredCategories {
			if _, ok := inCart[c]; !ok {
				absent = append(absent, c)
			}
		}
		if len(absent) != 1 {
			continue
		}

		candidates = append(candidates, rule)
		missing[rule.ID] = absent[0]
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Amount != candidates[j].Amount {
			return candidates[i].Amount > candidates[j].Amount
		}
		return candidates[i].ID < candidates[j].ID
	})

	for _, rule := range candidates {
		if len(out) == MaxSuggestions {
			break
		}
		c := missing[rule.ID]
		out = append(out, domain.PackSuggestion{
			RuleID:          rule.ID,
			RuleName:        rule.Name,
			MissingCategory: c,
			Amount:          rule.Amount,
			Message:         fmt.Sprintf("Add a %s service to get %q and save %d", c, rule.Name, rule.Amount),
		})
	}
	return out
}
