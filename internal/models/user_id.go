package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserID - ссылка на пользователя внутри другого документа.
// Исторически поле user хранится в двух видах: как hex-строка и как
// нативный ObjectID. При чтении принимаем оба вида, при записи всегда
// пишем каноническую hex-строку.
type UserID string

func (id UserID) String() string {
	return string(id)
}

// ObjectID возвращает нативный ObjectID или ошибку, если hex некорректен
func (id UserID) ObjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(string(id))
}

func (id UserID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(id))
}

func (id *UserID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bson.TypeString:
		s, ok := raw.StringValueOK()
		if !ok {
			return fmt.Errorf("некорректное строковое значение UserID")
		}
		*id = UserID(s)
	case bson.TypeObjectID:
		oid, ok := raw.ObjectIDOK()
		if !ok {
			return fmt.Errorf("некорректный ObjectID в UserID")
		}
		*id = UserID(oid.Hex())
	case bson.TypeNull:
		*id = ""
	default:
		return fmt.Errorf("неподдерживаемый bson-тип для UserID: %s", t)
	}

	return nil
}
