package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/filmgraph/internal/friendship"
	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/repository"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

// FriendshipService 好友关系：单向申请，对方回加后成为好友
type FriendshipService interface {
	AddFriend(ctx context.Context, userID, friendID int64) error
	DeleteFriend(ctx context.Context, userID, friendID int64) error
	GetFriends(ctx context.Context, userID int64) ([]model.User, error)
	GetCommonFriends(ctx context.Context, userID, otherID int64) ([]model.User, error)
	GetFriendRequests(ctx context.Context, userID int64) (*model.PendingRequests, error)
}

type friendshipService struct {
	store     *repository.Store
	publisher FeedPublisher
}

func NewFriendshipService(store *repository.Store, publisher FeedPublisher) FriendshipService {
	return &friendshipService{store: store, publisher: publisher}
}

func (s *friendshipService) AddFriend(ctx context.Context, userID, friendID int64) error {
	return s.mutate(ctx, userID, friendID, friendship.OpAdd, model.OperationAdd)
}

func (s *friendshipService) DeleteFriend(ctx context.Context, userID, friendID int64) error {
	return s.mutate(ctx, userID, friendID, friendship.OpDelete, model.OperationRemove)
}

func (s *friendshipService) mutate(ctx context.Context, userID, friendID int64, op friendship.Op, feedOp model.Operation) error {
	if userID == friendID {
		return apperror.Validation("user %d cannot befriend themselves", userID)
	}
	feed := newFeedLog(s.publisher)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockExisting(ctx, tx.Users.Lock, "user", userID, friendID); err != nil {
			return err
		}

		var (
			pair friendship.Pair
			err  error
		)
		if pair.Outgoing, err = tx.FriendRequests.Get(ctx, userID, friendID); err != nil {
			return err
		}
		if pair.Incoming, err = tx.FriendRequests.Get(ctx, friendID, userID); err != nil {
			return err
		}

		muts := friendship.Transition(pair, op)
		if len(muts) == 0 {
			return nil
		}
		for _, m := range muts {
			from, to := userID, friendID
			if m.Direction == friendship.Incoming {
				from, to = friendID, userID
			}
			switch m.Kind {
			case friendship.Delete:
				err = tx.FriendRequests.Delete(ctx, from, to)
			default:
				err = tx.FriendRequests.Upsert(ctx, from, to, m.Status.Status())
			}
			if err != nil {
				return fmt.Errorf("apply %s: %w", m, err)
			}
		}
		return feed.add(ctx, tx, userID, model.EventFriend, feedOp, friendID)
	})
	if err != nil {
		return err
	}
	feed.commit()
	return nil
}

func (s *friendshipService) GetFriends(ctx context.Context, userID int64) ([]model.User, error) {
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	ids, err := s.store.FriendRequests.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.Users.ListByIDs(ctx, ids)
}

func (s *friendshipService) GetCommonFriends(ctx context.Context, userID, otherID int64) ([]model.User, error) {
	for _, id := range []int64{userID, otherID} {
		if err := requireUser(ctx, s.store, id); err != nil {
			return nil, err
		}
	}
	mine, err := s.store.FriendRequests.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	theirs, err := s.store.FriendRequests.ListFriendIDs(ctx, otherID)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(theirs))
	for _, id := range theirs {
		set[id] = struct{}{}
	}
	common := make([]int64, 0)
	for _, id := range mine {
		if _, ok := set[id]; ok {
			common = append(common, id)
		}
	}
	return s.store.Users.ListByIDs(ctx, common)
}

func (s *friendshipService) GetFriendRequests(ctx context.Context, userID int64) (*model.PendingRequests, error) {
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	outIDs, inIDs, err := s.store.FriendRequests.ListPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	out, err := s.store.Users.ListByIDs(ctx, outIDs)
	if err != nil {
		return nil, err
	}
	in, err := s.store.Users.ListByIDs(ctx, inIDs)
	if err != nil {
		return nil, err
	}
	return &model.PendingRequests{Outgoing: out, Incoming: in}, nil
}
