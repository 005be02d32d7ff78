package authhandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"miniflow-backend/db"
	usersstore "miniflow-backend/lib/users/store"
	authutils "miniflow-backend/lib/utils/auth-utils"
	authapimodels "miniflow-backend/models/api/auth"
	usersapimodels "miniflow-backend/models/api/users"
)

type Provider interface {
	Login(data authapimodels.LoginData) (view authapimodels.TokenView, err error)
	Refresh(data authapimodels.RefreshData) (view authapimodels.TokenView, err error)
	Me(userID string) (view usersapimodels.UserView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		userStore: usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	userStore usersstore.Provider
}

var errWrongCredentials = errors.New("неверная почта или пароль")

func (i impl) Login(data authapimodels.LoginData) (view authapimodels.TokenView, err error) {
	logger := log.WithField("email", data.Email)
	userRec, err := i.userStore.GetByEmail(data.Email)
	if err != nil {
		return view, err
	}
	if userRec == nil {
		return view, errWrongCredentials
	}
	err = bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(data.Password))
	if err != nil {
		return view, errWrongCredentials
	}
	view.AccessToken, err = authutils.GetToken(userRec.ID, userRec.GetFullName(), userRec.Role)
	if err != nil {
		return view, errors.Wrap(err, "ошибка выпуска токена")
	}
	view.RefreshToken, err = authutils.GetRefreshToken(userRec.ID, userRec.GetFullName())
	if err != nil {
		return view, errors.Wrap(err, "ошибка выпуска refresh токена")
	}
	logger.Info("Пользователь авторизован")
	return view, nil
}

func (i impl) Refresh(data authapimodels.RefreshData) (view authapimodels.TokenView, err error) {
	claims, err := authutils.ParseToken(data.RefreshToken)
	if err != nil {
		return view, errors.New("refresh токен недействителен")
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return view, errors.New("refresh токен недействителен")
	}
	userRec, err := i.userStore.GetByID(userID)
	if err != nil {
		return view, err
	}
	if userRec == nil {
		return view, errors.New("пользователь не найден")
	}
	view.AccessToken, err = authutils.GetToken(userRec.ID, userRec.GetFullName(), userRec.Role)
	if err != nil {
		return view, errors.Wrap(err, "ошибка выпуска токена")
	}
	view.RefreshToken, err = authutils.GetRefreshToken(userRec.ID, userRec.GetFullName())
	if err != nil {
		return view, errors.Wrap(err, "ошибка выпуска refresh токена")
	}
	return view, nil
}

func (i impl) Me(userID string) (view usersapimodels.UserView, err error) {
	userRec, err := i.userStore.GetByID(userID)
	if err != nil {
		return view, err
	}
	if userRec == nil {
		return view, errors.New("пользователь не найден")
	}
	return usersapimodels.UserConvert(*userRec), nil
}
