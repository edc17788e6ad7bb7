package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

const (
	collectionAccounts = "accounts"
	collectionCounters = "counters"
	accountsCounterID  = "accounts"
)

// liveFilter excludes soft-deleted accounts.
var liveFilter = bson.E{Key: "deleted", Value: false}

type AccountRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		col:      db.Collection(collectionAccounts),
		counters: db.Collection(collectionCounters),
		now:      time.Now,
	}
}

type accountDocument struct {
	ID           int64      `bson:"_id"`
	FullName     string     `bson:"full_name"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password_hash"`
	Phone        string     `bson:"phone"`
	Avatar       string     `bson:"avatar,omitempty"`
	Role         string     `bson:"role"`
	Active       bool       `bson:"active"`
	Deleted      bool       `bson:"deleted"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
	DeletedAt    *time.Time `bson:"deleted_at,omitempty"`
}

func toDocument(a *domain.Account) accountDocument {
	return accountDocument{
		ID:           a.ID,
		FullName:     a.FullName,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Phone:        a.Phone,
		Avatar:       a.Avatar,
		Role:         a.Role.String(),
		Active:       a.Active,
		Deleted:      a.DeletedAt != nil,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		DeletedAt:    a.DeletedAt,
	}
}

func (d accountDocument) toDomain() *domain.Account {
	a := &domain.Account{
		ID:           d.ID,
		FullName:     d.FullName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Phone:        d.Phone,
		Avatar:       d.Avatar,
		Role:         domain.Role(d.Role),
		Active:       d.Active,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if d.DeletedAt != nil {
		t := d.DeletedAt.UTC()
		a.DeletedAt = &t
	}
	return a
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}, liveFilter})
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}, liveFilter})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.D) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx,
		bson.D{{Key: "email", Value: email}, liveFilter},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return n > 0, nil
}

// Save inserts when ID is zero, drawing the id from the counters collection,
// and replaces the document otherwise.
func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// BSON dates carry millisecond precision.
	now := r.now().UTC().Truncate(time.Millisecond)
	saved := *account
	saved.UpdatedAt = now

	if saved.ID == 0 {
		id, err := r.nextID(ctx)
		if err != nil {
			return nil, err
		}
		saved.ID = id
		saved.CreatedAt = now
		if _, err := r.col.InsertOne(ctx, toDocument(&saved)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrDuplicateAccount
			}
			return nil, fmt.Errorf("insert account: %w", err)
		}
		return &saved, nil
	}

	res, err := r.col.ReplaceOne(ctx, bson.D{{Key: "_id", Value: saved.ID}}, toDocument(&saved))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return &saved, nil
}

func (r *AccountRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: accountsCounterID}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next account id: %w", err)
	}
	return counter.Seq, nil
}

// EnsureIndexes makes email unique among live accounts.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("uniq_live_email").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{liveFilter}),
		},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
