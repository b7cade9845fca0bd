package service

import (
	"context"
	"fmt"
	"strings"

	"cardapio-virtual/internal/domain"
	"cardapio-virtual/internal/logging"
	"cardapio-virtual/internal/metrics"
)

// MenuService manages menu items and their images. The category cache and
// the popularity ranking are optional.
type MenuService struct {
	repo    MenuRepository
	images  ImageStore
	cache   CategoryCache
	ranking Ranking
}

func NewMenuService(repo MenuRepository, images ImageStore, cache CategoryCache, ranking Ranking) *MenuService {
	return &MenuService{repo: repo, images: images, cache: cache, ranking: ranking}
}

func (s *MenuService) List(ctx context.Context, category string) ([]domain.MenuItem, error) {
	return s.repo.ListItems(ctx, strings.TrimSpace(category))
}

func (s *MenuService) Get(ctx context.Context, id int) (*domain.MenuItem, error) {
	return s.repo.GetItem(ctx, id)
}

// Create stores the image under the item's reserved id and then inserts the
// row. The image is removed again when the insert fails.
func (s *MenuService) Create(ctx context.Context, input domain.NewItem, upload *domain.ImageUpload) (*domain.MenuItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if upload == nil || upload.Content == nil {
		return nil, fmt.Errorf("%w: arquivo is required", domain.ErrInvalidItem)
	}

	id, err := s.repo.NextItemID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reserve item id: %w", err)
	}

	url, written, err := s.images.Save(id, upload.Filename, upload.Content)
	if err != nil {
		return nil, err
	}
	metrics.RecordImageWritten(written)

	item := &domain.MenuItem{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    url,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		s.removeImage(ctx, url)
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.invalidateCategories(ctx)
	return item, nil
}

// Update writes only the fields present in patch. A new image replaces the
// old one once the row is updated.
func (s *MenuService) Update(ctx context.Context, id int, patch domain.ItemPatch, upload *domain.ImageUpload) (*domain.MenuItem, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	var newURL string
	if upload != nil && upload.Content != nil {
		url, written, err := s.images.Save(id, upload.Filename, upload.Content)
		if err != nil {
			return nil, err
		}
		metrics.RecordImageWritten(written)
		newURL = url
		patch.ImageURL = &newURL
	}

	if patch.Empty() {
		return current, nil
	}

	updated, err := s.repo.UpdateItem(ctx, id, patch)
	if err != nil {
		if newURL != "" && newURL != current.ImageURL {
			s.removeImage(ctx, newURL)
		}
		return nil, err
	}

	if newURL != "" && current.ImageURL != newURL {
		s.removeImage(ctx, current.ImageURL)
	}
	if patch.Category != nil {
		s.invalidateCategories(ctx)
	}
	return updated, nil
}

// Delete refuses items still referenced by an order.
func (s *MenuService) Delete(ctx context.Context, id int) error {
	deleted, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		return err
	}

	s.removeImage(ctx, deleted.ImageURL)
	s.invalidateCategories(ctx)
	if s.ranking != nil {
		if err := s.ranking.Remove(ctx, id); err != nil {
			logging.FromContext(ctx).WithError(err).WithField("item_id", id).Warn("failed to drop item from ranking")
		}
	}
	return nil
}

func (s *MenuService) Categories(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		categories, ok, err := s.cache.GetCategories(ctx)
		if err != nil {
			logging.FromContext(ctx).WithError(err).Warn("category cache read failed")
		} else if ok {
			return categories, nil
		}
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, categories); err != nil {
			logging.FromContext(ctx).WithError(err).Warn("category cache write failed")
		}
	}
	return categories, nil
}

func (s *MenuService) removeImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Remove(url); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("image_url", url).Warn("failed to remove image")
	}
}

func (s *MenuService) invalidateCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCategories(ctx); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("category cache invalidation failed")
	}
}
