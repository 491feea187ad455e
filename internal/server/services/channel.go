package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/logging"
	"github.com/dmitrijs2005/videotube/internal/server/media"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/subscriptions"
)

// ChannelService builds channel profiles from subscription edges and
// toggles edges on behalf of a subscriber.
type ChannelService struct {
	repos   repomanager.RepositoryManager
	media   media.Resolver
	logger  logging.Logger
	timeout time.Duration
}

func NewChannelService(d Deps) *ChannelService {
	d = d.withDefaults()
	return &ChannelService{
		repos:   d.Repos,
		media:   d.Media,
		logger:  d.Logger.With("module", "channel_service"),
		timeout: d.StoreTimeout,
	}
}

// Profile returns the channel named userName with exact subscriber and
// subscription counts. IsSubscribed is relative to viewer; a nil viewer is
// anonymous and never subscribed.
func (s *ChannelService) Profile(ctx context.Context, userName string, viewer *models.Identity) (*models.ChannelProfile, error) {
	userName = normalize(userName)
	if userName == "" {
		return nil, fmt.Errorf("%w: username is missing", common.ErrInvalidInput)
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	target, err := s.repos.Users().GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: channel does not exist", common.ErrorNotFound)
		}
		return nil, translate(err)
	}

	profile, err := s.aggregate(ctx, s.repos.Subscriptions(), target, viewer)
	if err != nil {
		return nil, translate(err)
	}
	return profile, nil
}

func (s *ChannelService) aggregate(ctx context.Context, subs subscriptions.Repository, target *models.User, viewer *models.Identity) (*models.ChannelProfile, error) {
	p := &models.ChannelProfile{
		ID:         target.ID,
		UserName:   target.UserName,
		Email:      target.Email,
		FullName:   target.FullName,
		Avatar:     resolve(ctx, s.media, s.logger, target.Avatar),
		CoverImage: resolve(ctx, s.media, s.logger, target.CoverImage),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := subs.CountSubscribers(gctx, target.ID)
		p.SubscribersCount = n
		return err
	})
	g.Go(func() error {
		n, err := subs.CountSubscribedTo(gctx, target.ID)
		p.SubscribedToCount = n
		return err
	})
	if viewer != nil && viewer.ID != "" {
		g.Go(func() error {
			ok, err := subs.Exists(gctx, viewer.ID, target.ID)
			p.IsSubscribed = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

// ToggleSubscription subscribes subscriber to channelID, or unsubscribes if
// the edge already exists. It reports whether the subscriber is subscribed
// afterwards.
func (s *ChannelService) ToggleSubscription(ctx context.Context, subscriber models.Identity, channelID string) (bool, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return false, fmt.Errorf("%w: channel id is missing", common.ErrInvalidInput)
	}
	if channelID == subscriber.ID {
		return false, fmt.Errorf("%w: cannot subscribe to your own channel", common.ErrInvalidInput)
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	var subscribed bool
	err := s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if _, err := repos.Users().GetByID(ctx, channelID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: channel does not exist", common.ErrorNotFound)
			}
			return err
		}

		removed, err := repos.Subscriptions().Delete(ctx, subscriber.ID, channelID)
		if err != nil {
			return err
		}
		if removed {
			subscribed = false
			return nil
		}

		if err := repos.Subscriptions().Create(ctx, subscriber.ID, channelID); err != nil {
			return err
		}
		subscribed = true
		return nil
	})
	if err != nil {
		return false, translate(err)
	}

	s.logger.Info(ctx, "subscription toggled", "subscriber_id", subscriber.ID, "channel_id", channelID, "subscribed", subscribed)
	return subscribed, nil
}

// Subscribers lists the edges into channelID. Only the channel owner may
// read them.
func (s *ChannelService) Subscribers(ctx context.Context, owner models.Identity, channelID string) ([]models.Subscription, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, fmt.Errorf("%w: channel id is missing", common.ErrInvalidInput)
	}
	if channelID != owner.ID {
		return nil, fmt.Errorf("%w: only the channel owner can list its subscribers", common.ErrForbidden)
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	subs, err := s.repos.Subscriptions().ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, translate(err)
	}
	return subs, nil
}

// SubscribedChannels lists the channels subscriberID follows. An unknown
// subscriber fails with common.ErrorNotFound; a known one with no edges gets
// an empty list.
func (s *ChannelService) SubscribedChannels(ctx context.Context, subscriberID string) ([]models.Subscription, error) {
	subscriberID = strings.TrimSpace(subscriberID)
	if subscriberID == "" {
		return nil, fmt.Errorf("%w: subscriber id is missing", common.ErrInvalidInput)
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	if _, err := s.repos.Users().GetByID(ctx, subscriberID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: subscriber does not exist", common.ErrorNotFound)
		}
		return nil, translate(err)
	}

	subs, err := s.repos.Subscriptions().ListSubscribedTo(ctx, subscriberID)
	if err != nil {
		return nil, translate(err)
	}
	return subs, nil
}
