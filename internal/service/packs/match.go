package packs

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// match результат сопоставления правила с корзиной
type match struct {
	rule        *domain.DiscountRule
	lineIndexes []int
}

// present возвращает категории, присутствующие среди строк idx
func present(lines []domain.CartLineItem, idx []int) map[domain.Category]struct{} {
	out := make(map[domain.Category]struct{}, len(idx))
	for _, i := range idx {
		out[lines[i].Category] = struct{}{}
	}
	return out
}

func coversAll(rule *domain.DiscountRule, cats map[domain.Category]struct{}) bool {
	for _, c := range rule.RequiredCategories {
		if _, ok := cats[c]; !ok {
			return false
		}
	}
	return true
}

// eligibleLines строки, которые могут засчитываться правилу:
// категория требуется правилом, гостей не меньше минимума, день недели разрешен
func eligibleLines(rule *domain.DiscountRule, lines []domain.CartLineItem) []int {
	minParty := rule.EffectiveMinPartySize()

	idx := make([]int, 0, len(lines))
	for i, line := range lines {
		if !rule.Requires(line.Category) {
			continue
		}
		if line.PartySize < minParty {
			continue
		}
		if !rule.AllowsWeekday(line.Date.Weekday()) {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

// matchRule проверяет правило против корзины на дату checkDate
// Правило должно быть валидным: проверка Validate выполняется вызывающим
func matchRule(rule *domain.DiscountRule, lines []domain.CartLineItem, checkDate time.Time) (match, bool) {
	if !rule.ActiveOn(checkDate) {
		return match{}, false
	}

	idx := eligibleLines(rule, lines)
	if len(idx) == 0 {
		return match{}, false
	}

	if rule.SameDateRequired {
		return matchSameDate(rule, lines, idx)
	}

	if !coversAll(rule, present(lines, idx)) {
		return match{}, false
	}

	// Ночи считаются как max(date) - min(date) в целых днях: заезд 10-го и выезд 12-го - две ночи
	first, last := types.DateOnly(lines[idx[0]].Date), types.DateOnly(lines[idx[0]].Date)
	for _, i := range idx[1:] {
		d := types.DateOnly(lines[i].Date)
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	if types.DaysBetween(first, last) < rule.EffectiveMinNights() {
		return match{}, false
	}

	return match{rule: rule, lineIndexes: idx}, true
}

// matchSameDate выбирает самую раннюю дату, на которой присутствуют все категории
func matchSameDate(rule *domain.DiscountRule, lines []domain.CartLineItem, idx []int) (match, bool) {
	byDate := make(map[time.Time][]int)
	dates := make([]time.Time, 0)
	for _, i := range idx {
		d := types.DateOnly(lines[i].Date)
		if _, ok := byDate[d]; !ok {
			dates = append(dates, d)
		}
		byDate[d] = append(byDate[d], i)
	}
	sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b]) })

	for _, d := range dates {
		if coversAll(rule, present(lines, byDate[d])) {
			return match{rule: rule, lineIndexes: byDate[d]}, true
		}
	}
	return match{}, false
}
