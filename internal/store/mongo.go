package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/Sohiburr/ToBeControl/internal/domain"
)

// Collection names.
const (
	collUsers = "users"
	collLogs  = "logs"
)

// Mongo implements Repo on a MongoDB database. All mutations target a
// single user document (or insert a single log document), so the engine's
// per-document atomicity is the only coordination this system needs.
type Mongo struct {
	client *mongo.Client
	users  *mongo.Collection
	logs   *mongo.Collection
	loc    *time.Location
	log    *zap.Logger
}

// Open connects to MongoDB, pings it, and ensures the user_id indexes on
// both collections. A nil error means the store is usable; callers that
// get an error should fall back to Unavailable rather than aborting.
func Open(ctx context.Context, uri, dbName string, loc *time.Location, log *zap.Logger) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(dbName)
	m := &Mongo{
		client: client,
		users:  db.Collection(collUsers),
		logs:   db.Collection(collLogs),
		loc:    loc,
		log:    log,
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	byUser := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}}
	if _, err := m.users.Indexes().CreateOne(ctx, byUser); err != nil {
		return err
	}
	if _, err := m.logs.Indexes().CreateOne(ctx, byUser); err != nil {
		return err
	}
	return nil
}

// Close releases the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Register upserts the user, stamping bot-side activity. A fresh document
// gets an empty schedule list via $setOnInsert.
func (m *Mongo) Register(ctx context.Context, userID int64, firstName, username string) {
	m.register(ctx, userID, firstName, username, "last_active")
}

// RegisterWeb upserts the user from a web login, stamping web-side activity.
func (m *Mongo) RegisterWeb(ctx context.Context, userID int64, firstName, username string) {
	m.register(ctx, userID, firstName, username, "last_active_web")
}

func (m *Mongo) register(ctx context.Context, userID int64, firstName, username, activeField string) {
	update := bson.M{
		"$set": bson.M{
			"first_name": firstName,
			"username":   username,
			activeField:  time.Now().In(m.loc),
		},
		"$setOnInsert": bson.M{"schedule": []domain.ScheduleEntry{}},
	}
	_, err := m.users.UpdateOne(ctx,
		bson.M{"user_id": userID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		m.log.Error("register user failed", zap.Int64("userID", userID), zap.Error(err))
	}
}

// AddSchedule appends the entry unless the exact (time, medication) pair
// already exists for the user.
func (m *Mongo) AddSchedule(ctx context.Context, userID int64, timeOfDay, medication string) (bool, error) {
	dup := m.users.FindOne(ctx, bson.M{
		"user_id": userID,
		"schedule": bson.M{"$elemMatch": bson.M{
			"time":       timeOfDay,
			"medication": medication,
		}},
	})
	switch err := dup.Err(); err {
	case nil:
		return false, nil // duplicate, leave the list untouched
	case mongo.ErrNoDocuments:
		// fall through to the push
	default:
		m.log.Error("duplicate probe failed", zap.Int64("userID", userID), zap.Error(err))
		return false, err
	}

	_, err := m.users.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$push": bson.M{"schedule": domain.ScheduleEntry{
			Time:       timeOfDay,
			Medication: medication,
		}}},
	)
	if err != nil {
		m.log.Error("add schedule failed", zap.Int64("userID", userID), zap.Error(err))
		return false, err
	}
	return true, nil
}

// ListSchedule returns the user's entries in stored order.
func (m *Mongo) ListSchedule(ctx context.Context, userID int64) []domain.ScheduleEntry {
	var u domain.User
	err := m.users.FindOne(ctx, bson.M{"user_id": userID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		m.log.Error("list schedule failed", zap.Int64("userID", userID), zap.Error(err))
		return nil
	}
	return u.Schedule
}

// RemoveSchedule pulls every entry matching timeOfDay (and medication when
// given). The removed-entry count is taken from the document before the
// pull; $pull itself only reports modified documents.
func (m *Mongo) RemoveSchedule(ctx context.Context, userID int64, timeOfDay, medication string) int {
	var u domain.User
	err := m.users.FindOne(ctx, bson.M{"user_id": userID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return 0
	}
	if err != nil {
		m.log.Error("remove schedule lookup failed", zap.Int64("userID", userID), zap.Error(err))
		return 0
	}

	count := domain.CountMatching(u.Schedule, timeOfDay, medication)
	if count == 0 {
		return 0
	}

	match := bson.M{"time": timeOfDay}
	if medication != "" {
		match["medication"] = medication
	}
	_, err = m.users.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$pull": bson.M{"schedule": match}},
	)
	if err != nil {
		m.log.Error("remove schedule failed", zap.Int64("userID", userID), zap.Error(err))
		return 0
	}
	return count
}

// AppendDoseLog inserts one immutable log document.
func (m *Mongo) AppendDoseLog(ctx context.Context, userID int64, medication, status string) {
	_, err := m.logs.InsertOne(ctx, domain.DoseLog{
		UserID:     userID,
		Medication: medication,
		Status:     status,
		TakenAt:    time.Now().In(m.loc),
	})
	if err != nil {
		m.log.Error("append dose log failed", zap.Int64("userID", userID), zap.Error(err))
	}
}

// TotalDoseCount counts the user's dose logs.
func (m *Mongo) TotalDoseCount(ctx context.Context, userID int64) int64 {
	n, err := m.logs.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		m.log.Error("total dose count failed", zap.Int64("userID", userID), zap.Error(err))
		return 0
	}
	return n
}

// DailyDoseCounts groups logs by calendar date in the fixed timezone,
// ascending, truncated to the earliest 7 distinct dates present. The
// earliest-not-latest truncation reproduces the behavior users already
// see; see DESIGN.md before changing it.
func (m *Mongo) DailyDoseCounts(ctx context.Context, userID int64) []domain.DailyCount {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m-%d",
				"date":     "$taken_at",
				"timezone": m.loc.String(),
			}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
		{{Key: "$limit", Value: 7}},
	}

	cur, err := m.logs.Aggregate(ctx, pipeline)
	if err != nil {
		m.log.Error("daily dose counts failed", zap.Int64("userID", userID), zap.Error(err))
		return nil
	}
	defer cur.Close(ctx)

	var rows []struct {
		Date  string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		m.log.Error("daily dose counts decode failed", zap.Int64("userID", userID), zap.Error(err))
		return nil
	}

	out := make([]domain.DailyCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.DailyCount{Date: r.Date, Count: r.Count})
	}
	return out
}

// RecentDoseLogs returns up to n logs, newest first.
func (m *Mongo) RecentDoseLogs(ctx context.Context, userID int64, n int64) []domain.DoseLog {
	opts := options.Find().
		SetSort(bson.M{"taken_at": -1}).
		SetLimit(n)
	cur, err := m.logs.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		m.log.Error("recent dose logs failed", zap.Int64("userID", userID), zap.Error(err))
		return nil
	}
	defer cur.Close(ctx)

	var logs []domain.DoseLog
	if err := cur.All(ctx, &logs); err != nil {
		m.log.Error("recent dose logs decode failed", zap.Int64("userID", userID), zap.Error(err))
		return nil
	}
	return logs
}

// UsersDueAt returns users with at least one schedule entry at hhmm.
func (m *Mongo) UsersDueAt(ctx context.Context, hhmm string) []domain.User {
	cur, err := m.users.Find(ctx, bson.M{"schedule.time": hhmm})
	if err != nil {
		m.log.Error("due users query failed", zap.String("time", hhmm), zap.Error(err))
		return nil
	}
	defer cur.Close(ctx)

	var users []domain.User
	if err := cur.All(ctx, &users); err != nil {
		m.log.Error("due users decode failed", zap.String("time", hhmm), zap.Error(err))
		return nil
	}
	return users
}
