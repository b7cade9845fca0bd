package service

import (
	"context"

	"cardapio-virtual/internal/domain"
)

type PopularityService struct {
	ranking Ranking
	menu    MenuRepository
}

func NewPopularityService(ranking Ranking, menu MenuRepository) *PopularityService {
	return &PopularityService{ranking: ranking, menu: menu}
}

// Top returns the n most ordered items, most ordered first. Items deleted
// since they were ranked are skipped.
func (s *PopularityService) Top(ctx context.Context, n int) ([]domain.PopularItem, error) {
	popular := []domain.PopularItem{}
	if s.ranking == nil || n <= 0 {
		return popular, nil
	}

	scores, err := s.ranking.Top(ctx, n)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return popular, nil
	}

	ids := make([]int, len(scores))
	for i, score := range scores {
		ids[i] = score.ItemID
	}
	items, err := s.menu.GetItemsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]domain.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for _, score := range scores {
		item, ok := byID[score.ItemID]
		if !ok {
			continue
		}
		popular = append(popular, domain.PopularItem{Item: item, Quantity: score.Score})
	}
	return popular, nil
}
