package stores

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GoncharovAlexandr/onshp/apperr"
	"github.com/GoncharovAlexandr/onshp/models"
)

type mongoCarts struct {
	col *mongo.Collection
}

func (m *mongoCarts) Get(ctx context.Context, customerID uint) (models.Cart, error) {
	var cart models.Cart
	err := m.col.FindOne(ctx, bson.M{"customer_id": customerID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Cart{CustomerID: customerID}, nil
	}
	if err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func (m *mongoCarts) Put(ctx context.Context, cart models.Cart) error {
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	_, err := m.col.UpdateOne(ctx,
		bson.M{"customer_id": cart.CustomerID},
		bson.M{"$set": bson.M{"customer_id": cart.CustomerID, "items": cart.Items}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (m *mongoCarts) Clear(ctx context.Context, customerID uint) error {
	_, err := m.col.UpdateOne(ctx,
		bson.M{"customer_id": customerID},
		bson.M{"$set": bson.M{"customer_id": customerID, "items": []models.CartItem{}}},
		options.Update().SetUpsert(true),
	)
	return err
}

type mongoProfiles struct {
	col *mongo.Collection
}

func (m *mongoProfiles) Get(ctx context.Context, customerID uint) (models.UserProfile, error) {
	var profile models.UserProfile
	err := m.col.FindOne(ctx, bson.M{"customer_id": customerID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.UserProfile{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

func (m *mongoProfiles) Upsert(ctx context.Context, profile models.UserProfile) error {
	_, err := m.col.UpdateOne(ctx,
		bson.M{"customer_id": profile.CustomerID},
		bson.M{"$set": profile},
		options.Update().SetUpsert(true),
	)
	return err
}

type mongoProductDocs struct {
	col *mongo.Collection
}

func (m *mongoProductDocs) Get(ctx context.Context, productID uint) (models.ProductDoc, error) {
	var doc models.ProductDoc
	err := m.col.FindOne(ctx, bson.M{"product_id": productID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ProductDoc{ProductID: productID, Attributes: map[string]string{}}, nil
	}
	if err != nil {
		return models.ProductDoc{}, err
	}
	return doc, nil
}

func (m *mongoProductDocs) Upsert(ctx context.Context, doc models.ProductDoc) error {
	if doc.Attributes == nil {
		doc.Attributes = map[string]string{}
	}
	_, err := m.col.UpdateOne(ctx,
		bson.M{"product_id": doc.ProductID},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	return err
}

func (m *mongoProductDocs) Delete(ctx context.Context, productID uint) error {
	_, err := m.col.DeleteOne(ctx, bson.M{"product_id": productID})
	return err
}

// promotionDoc is the stored shape; the ObjectID is translated to its hex
// form on the way out.
type promotionDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Discount    float64            `bson:"discount"`
	Products    []uint             `bson:"products"`
}

func (d promotionDoc) model() models.Promotion {
	return models.Promotion{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Discount:    d.Discount,
		Products:    d.Products,
	}
}

type mongoPromotions struct {
	col *mongo.Collection
}

func (m *mongoPromotions) List(ctx context.Context) ([]models.Promotion, error) {
	return m.find(ctx, bson.M{})
}

func (m *mongoPromotions) ByProduct(ctx context.Context, productID uint) ([]models.Promotion, error) {
	return m.find(ctx, bson.M{"products": productID})
}

func (m *mongoPromotions) find(ctx context.Context, filter bson.M) ([]models.Promotion, error) {
	cursor, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []promotionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	promos := make([]models.Promotion, 0, len(docs))
	for _, d := range docs {
		promos = append(promos, d.model())
	}
	return promos, nil
}

func (m *mongoPromotions) Get(ctx context.Context, id string) (models.Promotion, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Promotion{}, apperr.ErrNotFound
	}
	var doc promotionDoc
	err = m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Promotion{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Promotion{}, err
	}
	return doc.model(), nil
}

func (m *mongoPromotions) Create(ctx context.Context, promo models.Promotion) (models.Promotion, error) {
	doc := promotionDoc{
		Name:        promo.Name,
		Description: promo.Description,
		Discount:    promo.Discount,
		Products:    promo.Products,
	}
	res, err := m.col.InsertOne(ctx, doc)
	if err != nil {
		return models.Promotion{}, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.model(), nil
}

func (m *mongoPromotions) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.ErrNotFound
	}
	_, err = m.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
