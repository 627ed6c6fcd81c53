package service

import (
	"fmt"

	"github.com/pribylovaa/lapa-nations/internal/feed"
	"github.com/pribylovaa/lapa-nations/internal/models"
)

// SubscribeNews — подписка на ленту. fn получает полный отсортированный
// снимок сразу после подписки и после каждого изменения.
func (s *Service) SubscribeNews(fn func([]models.News)) (func(), error) {
	return subscribe(s.hub, "service/subscriptions/SubscribeNews", feed.TopicNews, fn)
}

// SubscribeGlobalComments — подписка на глобальный поток.
func (s *Service) SubscribeGlobalComments(fn func([]models.Comment)) (func(), error) {
	return subscribe(s.hub, "service/subscriptions/SubscribeGlobalComments", feed.TopicGlobalComments, fn)
}

// SubscribeCountries — подписка на реестр стран.
func (s *Service) SubscribeCountries(fn func([]models.Country)) (func(), error) {
	return subscribe(s.hub, "service/subscriptions/SubscribeCountries", feed.TopicCountries, fn)
}

func subscribe[T any](hub *feed.Hub, op, topic string, fn func([]T)) (func(), error) {
	if hub == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	unsub, err := feed.Subscribe(hub, topic, fn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return unsub, nil
}
