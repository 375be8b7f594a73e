package event

import (
	"context"
	"log/slog"
)

// lowStockWarnThreshold mirrors the dashboard's default low-stock alert level.
const lowStockWarnThreshold = 10

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", ev.ProductID),
		slog.String("code", ev.Code),
		slog.String("category", ev.Category),
	)
	return nil
}

func (s *Service) handleProductUpdatedEvent(ctx context.Context, ev ProductUpdatedEvent) error {
	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", ev.ProductID),
		slog.String("code", ev.Code),
	)

	if ev.Quantity < lowStockWarnThreshold {
		s.logger.WarnContext(ctx, "product stock is low",
			slog.String("product_id", ev.ProductID),
			slog.String("code", ev.Code),
			slog.Int("quantity", ev.Quantity),
		)
	}

	return nil
}

func (s *Service) handleProductDeletedEvent(ctx context.Context, ev ProductDeletedEvent) error {
	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", ev.ProductID),
		slog.String("code", ev.Code),
	)
	return nil
}
