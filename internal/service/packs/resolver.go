package packs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Resolver применяет пакетные скидки к корзине
// Правила читаются один раз за вызов; дальше расчет идет по снимку
type Resolver struct {
	rules   RuleRepository
	metrics Metrics
	logger  Logger
	now     func() time.Time
}

// NewResolver создает resolver. metrics может быть nil
func NewResolver(rules RuleRepository, metrics Metrics, logger Logger) *Resolver {
	return &Resolver{
		rules:   rules,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Snapshot читает активные правила
func (r *Resolver) Snapshot(ctx context.Context) ([]*domain.DiscountRule, error) {
	rules, err := r.rules.GetActive(ctx)
	if err != nil {
		r.logger.Error("Snapshot: failed to load discount rules: %v", err)
		return nil, fmt.Errorf("%w: Snapshot - load rules: %v", ErrRulesUnavailable, err)
	}
	return rules, nil
}

// Resolve рассчитывает корзину по свежему снимку правил
func (r *Resolver) Resolve(ctx context.Context, cart domain.Cart) (domain.Resolution, error) {
	rules, err := r.Snapshot(ctx)
	if err != nil {
		return domain.Resolution{}, err
	}
	return r.ResolveWith(cart, rules), nil
}

// ResolveWith рассчитывает корзину по уже прочитанному снимку
func (r *Resolver) ResolveWith(cart domain.Cart, rules []*domain.DiscountRule) domain.Resolution {
	res := Resolve(cart, rules, r.checkDate(cart), r.logger)
	if r.metrics != nil {
		for _, a := range res.Applied {
			r.metrics.RecordDiscount(a.RuleName)
		}
	}
	return res
}

// Quote рассчитывает корзину и подсказки по одному снимку правил
func (r *Resolver) Quote(ctx context.Context, cart domain.Cart) (domain.Resolution, []domain.PackSuggestion, error) {
	rules, err := r.Snapshot(ctx)
	if err != nil {
		return domain.Resolution{}, nil, err
	}

	asOf := r.checkDate(cart)
	return Resolve(cart, rules, asOf, r.logger), Suggest(cart, rules, asOf), nil
}

func (r *Resolver) checkDate(cart domain.Cart) time.Time {
	if !cart.AsOf.IsZero() {
		return types.DateOnly(cart.AsOf)
	}
	return types.DateOnly(r.now())
}

// Resolve чистая функция расчета корзины
//
//  1. subtotal - сумма строк (цена x количество) и подарочных карт
//  2. подходящие правила сортируются по приоритету (убыв.), затем по id (возр.)
//  3. правило выбирается, только если ни одна его категория еще не занята;
//     выбранное правило занимает все свои категории
//  4. сумма скидок не превышает subtotal
//
// Некорректные правила пропускаются с предупреждением в лог
func Resolve(cart domain.Cart, rules []*domain.DiscountRule, asOf time.Time, log Logger) domain.Resolution {
	res := domain.Resolution{
		Subtotal: subtotal(cart),
		Applied:  []domain.AppliedDiscount{},
	}

	matches := collectMatches(cart.Lines, rules, types.DateOnly(asOf), log)

	claimed := make(map[domain.Category]int64)
	for _, m := range matches {
		if conflict, by := claimedBy(m.rule, claimed); conflict {
			if log != nil {
				log.Info("Resolve: rule %d (%s) skipped, category already claimed by rule %d",
					m.rule.ID, m.rule.Name, by)
			}
			continue
		}
		for _, c := range m.rule.RequiredCategories {
			claimed[c] = m.rule.ID
		}

		amount := m.rule.Amount
		if left := res.Subtotal - res.DiscountTotal; amount > left {
			amount = left
		}
		if amount <= 0 {
			// категории остаются занятыми: правило выбрано, но скидке уже некуда уменьшать сумму
			if log != nil {
				log.Info("Resolve: rule %d (%s) selected with zero amount, subtotal already exhausted",
					m.rule.ID, m.rule.Name)
			}
			continue
		}

		res.DiscountTotal += amount
		res.Applied = append(res.Applied, applied(m, cart.Lines, amount))
	}

	res.Total = res.Subtotal - res.DiscountTotal
	if res.Total < 0 {
		res.Total = 0
	}
	return res
}

func subtotal(cart domain.Cart) int64 {
	var sum int64
	for _, line := range cart.Lines {
		sum += line.Total()
	}
	for _, gc := range cart.GiftCards {
		sum += gc.Amount
	}
	return sum
}

// collectMatches подходящие правила в порядке выбора
func collectMatches(lines []domain.CartLineItem, rules []*domain.DiscountRule, checkDate time.Time, log Logger) []match {
	matches := make([]match, 0, len(rules))
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if err := rule.Validate(); err != nil {
			if log != nil {
				log.Warn("Resolve: skipping malformed discount rule %d: %v", rule.ID, err)
			}
			continue
		}
		if m, ok := matchRule(rule, lines, checkDate); ok {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].rule, matches[j].rule
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.ID < b.ID
	})
	return matches
}

func claimedBy(rule *domain.DiscountRule, claimed map[domain.Category]int64) (bool, int64) {
	for _, c := range rule.RequiredCategories {
		if id, ok := claimed[c]; ok {
			return true, id
		}
	}
	return false, 0
}

func applied(m match, lines []domain.CartLineItem, amount int64) domain.AppliedDiscount {
	names := make([]string, 0, len(m.lineIndexes))
	for _, i := range m.lineIndexes {
		names = append(names, lines[i].ServiceName)
	}

	categories := make([]domain.Category, len(m.rule.RequiredCategories))
	copy(categories, m.rule.RequiredCategories)

	return domain.AppliedDiscount{
		RuleID:      m.rule.ID,
		RuleName:    m.rule.Name,
		Amount:      amount,
		Categories:  categories,
		LineIndexes: m.lineIndexes,
		Description: fmt.Sprintf("Pack applied: %s (%s)", m.rule.Name, strings.Join(names, " + ")),
	}
}
