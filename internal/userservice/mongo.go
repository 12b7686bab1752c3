package userservice

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sushihentaime/bloglist/internal/common"
)

type userDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	Name         string               `bson:"name"`
	PasswordHash string               `bson:"passwordHash"`
	Blogs        []primitive.ObjectID `bson:"blogs"`
}

type blogSummaryDocument struct {
	ID     primitive.ObjectID `bson:"_id"`
	Title  string             `bson:"title"`
	Author string             `bson:"author"`
	URL    string             `bson:"url"`
}

func (d *userDocument) toUser() *User {
	blogs := make([]string, 0, len(d.Blogs))
	for _, id := range d.Blogs {
		blogs = append(blogs, id.Hex())
	}

	return &User{
		ID:       d.ID.Hex(),
		Username: d.Username,
		Name:     d.Name,
		Password: Password{hash: []byte(d.PasswordHash)},
		Blogs:    blogs,
	}
}

type MongoModel struct {
	users *mongo.Collection
	blogs *mongo.Collection
}

func NewMongoModel(db *mongo.Database) *MongoModel {
	return &MongoModel{
		users: db.Collection(common.UsersCollection),
		blogs: db.Collection(common.BlogsCollection),
	}
}

func (m *MongoModel) insert(ctx context.Context, u *User) error {
	doc := userDocument{
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: string(u.Password.hash),
		Blogs:        []primitive.ObjectID{},
	}

	res, err := m.users.InsertOne(ctx, doc)
	if err != nil {
		switch {
		case mongo.IsDuplicateKeyError(err):
			return ErrDuplicateUsername
		default:
			return err
		}
	}

	u.ID = res.InsertedID.(primitive.ObjectID).Hex()
	u.Blogs = []string{}

	return nil
}

func (m *MongoModel) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var doc userDocument
	err := m.users.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return doc.toUser(), nil
}

func (m *MongoModel) getByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrRecordNotFound
	}

	return m.findOne(ctx, bson.M{"_id": oid})
}

func (m *MongoModel) getByUsername(ctx context.Context, username string) (*User, error) {
	return m.findOne(ctx, bson.M{"username": username})
}

// getAll loads every user and resolves their blog ids with one extra query.
func (m *MongoModel) getAll(ctx context.Context) ([]*UserWithBlogs, error) {
	cur, err := m.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	var ids []primitive.ObjectID
	for _, d := range docs {
		ids = append(ids, d.Blogs...)
	}

	found := make(map[string]BlogSummary)
	if len(ids) > 0 {
		opts := options.Find().SetProjection(bson.M{"title": 1, "author": 1, "url": 1})
		bcur, err := m.blogs.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
		if err != nil {
			return nil, err
		}

		var blogs []blogSummaryDocument
		if err := bcur.All(ctx, &blogs); err != nil {
			return nil, err
		}

		for _, b := range blogs {
			found[b.ID.Hex()] = BlogSummary{ID: b.ID.Hex(), Title: b.Title, Author: b.Author, URL: b.URL}
		}
	}

	users := make([]*UserWithBlogs, 0, len(docs))
	for _, d := range docs {
		u := d.toUser()
		users = append(users, &UserWithBlogs{
			ID:       u.ID,
			Username: u.Username,
			Name:     u.Name,
			Blogs:    resolveBlogs(u.Blogs, found),
		})
	}

	return users, nil
}
