package usershandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"miniflow-backend/db"
	usersstore "miniflow-backend/lib/users/store"
	"miniflow-backend/lib/utils/apperrors"
	usersapimodels "miniflow-backend/models/api/users"
	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	Create(data usersapimodels.UserCreateData) (id string, err error)
	GetByID(id string) (view usersapimodels.UserView, err error)
	List(filter usersapimodels.UserFilter) (list []usersapimodels.UserView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store usersstore.Provider
}

func (i impl) Create(data usersapimodels.UserCreateData) (id string, err error) {
	exist, err := i.store.ExistByEmail(data.Email)
	if err != nil {
		return "", err
	}
	if exist {
		return "", apperrors.BusinessRule("пользователь с такой почтой уже существует")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "ошибка хеширования пароля")
	}
	rec := dbmodels.User{
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Email:        data.Email,
		PasswordHash: string(hash),
		Position:     data.Position,
		Role:         data.Role,
	}
	if data.DepartmentID != "" {
		rec.DepartmentID = &data.DepartmentID
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения пользователя")
	}
	log.WithField("user_id", id).Info("Пользователь создан")
	return id, nil
}

func (i impl) GetByID(id string) (view usersapimodels.UserView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return view, err
	}
	if rec == nil {
		return view, apperrors.NotFound("пользователь не найден")
	}
	return usersapimodels.UserConvert(*rec), nil
}

func (i impl) List(filter usersapimodels.UserFilter) (list []usersapimodels.UserView, rowCount int64, err error) {
	recs, err := i.store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка пользователей")
	}
	rowCount, err = i.store.ListCount(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения количества пользователей")
	}
	list = make([]usersapimodels.UserView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, usersapimodels.UserConvert(rec))
	}
	return list, rowCount, nil
}
