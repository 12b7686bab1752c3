package blogservice

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sushihentaime/bloglist/internal/common"
)

type blogDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Title  string             `bson:"title"`
	Author string             `bson:"author"`
	URL    string             `bson:"url"`
	Likes  int                `bson:"likes"`
	User   primitive.ObjectID `bson:"user"`
}

type ownerDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Username string             `bson:"username"`
	Name     string             `bson:"name"`
}

func (d *blogDocument) toBlog() *Blog {
	return &Blog{
		ID:     d.ID.Hex(),
		Title:  d.Title,
		Author: d.Author,
		URL:    d.URL,
		Likes:  d.Likes,
		User:   d.User.Hex(),
	}
}

type MongoModel struct {
	blogs *mongo.Collection
	users *mongo.Collection
}

func NewMongoModel(db *mongo.Database) *MongoModel {
	return &MongoModel{
		blogs: db.Collection(common.BlogsCollection),
		users: db.Collection(common.UsersCollection),
	}
}

func (m *MongoModel) getAll(ctx context.Context) ([]*BlogWithUser, error) {
	cur, err := m.blogs.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var docs []blogDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, d := range docs {
		if !seen[d.User] {
			seen[d.User] = true
			ids = append(ids, d.User)
		}
	}

	owners := make(map[primitive.ObjectID]*UserSummary)
	if len(ids) > 0 {
		opts := options.Find().SetProjection(bson.M{"username": 1, "name": 1})
		ucur, err := m.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
		if err != nil {
			return nil, err
		}

		var users []ownerDocument
		if err := ucur.All(ctx, &users); err != nil {
			return nil, err
		}

		for _, u := range users {
			owners[u.ID] = &UserSummary{ID: u.ID.Hex(), Username: u.Username, Name: u.Name}
		}
	}

	blogs := make([]*BlogWithUser, 0, len(docs))
	for _, d := range docs {
		blogs = append(blogs, &BlogWithUser{
			ID:     d.ID.Hex(),
			Title:  d.Title,
			Author: d.Author,
			URL:    d.URL,
			Likes:  d.Likes,
			User:   owners[d.User],
		})
	}

	return blogs, nil
}

func (m *MongoModel) get(ctx context.Context, id string) (*Blog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrRecordNotFound
	}

	var doc blogDocument
	if err := m.blogs.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return doc.toBlog(), nil
}

func (m *MongoModel) insert(ctx context.Context, b *Blog) error {
	owner, err := primitive.ObjectIDFromHex(b.User)
	if err != nil {
		return ErrUserForeignKey
	}

	doc := blogDocument{
		Title:  b.Title,
		Author: b.Author,
		URL:    b.URL,
		Likes:  b.Likes,
		User:   owner,
	}

	res, err := m.blogs.InsertOne(ctx, doc)
	if err != nil {
		return err
	}

	b.ID = res.InsertedID.(primitive.ObjectID).Hex()

	return nil
}

func (m *MongoModel) update(ctx context.Context, id, title, author, url string, likes int) (*Blog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrRecordNotFound
	}

	update := bson.M{"$set": bson.M{"title": title, "author": author, "url": url, "likes": likes}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc blogDocument
	if err := m.blogs.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return doc.toBlog(), nil
}

func (m *MongoModel) delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrRecordNotFound
	}

	res, err := m.blogs.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return common.ErrRecordNotFound
	}

	return nil
}

func (m *MongoModel) pushPull(ctx context.Context, op, userID, blogID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserForeignKey
	}

	bid, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return common.ErrRecordNotFound
	}

	res, err := m.users.UpdateByID(ctx, uid, bson.M{op: bson.M{"blogs": bid}})
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return ErrUserForeignKey
	}

	return nil
}

func (m *MongoModel) addToUser(ctx context.Context, userID, blogID string) error {
	return m.pushPull(ctx, "$push", userID, blogID)
}

func (m *MongoModel) removeFromUser(ctx context.Context, userID, blogID string) error {
	return m.pushPull(ctx, "$pull", userID, blogID)
}
