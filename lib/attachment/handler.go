package attachmenthandler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"miniflow-backend/db"
	approvalrequeststore "miniflow-backend/lib/approval-request/store"
	attachmentstore "miniflow-backend/lib/attachment/store"
	"miniflow-backend/lib/utils/apperrors"
	attachmentapimodels "miniflow-backend/models/api/attachment"
	dbmodels "miniflow-backend/models/db"
	s3client "miniflow-backend/s3"
)

type Provider interface {
	Upload(ctx context.Context, userID string, isAdmin bool, requestID string, file attachmentapimodels.FileData) (id string, err error)
	Download(ctx context.Context, userID string, isAdmin bool, id string) (file attachmentapimodels.FileData, err error)
	Delete(ctx context.Context, userID string, isAdmin bool, id string) error
	ListByRequest(userID string, isAdmin bool, requestID string) (list []attachmentapimodels.AttachmentView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:        attachmentstore.NewInstance(db.DB),
		requestStore: approvalrequeststore.NewInstance(db.DB),
		s3:           s3client.Instance,
	}
}

type impl struct {
	store        attachmentstore.Provider
	requestStore approvalrequeststore.Provider
	s3           s3client.Provider
}

func (i impl) Upload(ctx context.Context, userID string, isAdmin bool, requestID string, file attachmentapimodels.FileData) (id string, err error) {
	rec, err := i.requestStore.GetByID(requestID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", apperrors.NotFound("заявка не найдена")
	}
	if !isAdmin && rec.RequesterID != userID {
		return "", apperrors.Forbidden("добавление вложений доступно только заявителю")
	}
	if rec.Status.IsCompleted() {
		return "", apperrors.Conflict("заявка уже завершена", rec.Status)
	}
	objectKey := fmt.Sprintf("%v/%v", requestID, uuid.NewString())
	err = i.s3.UploadObject(ctx, objectKey, file.ContentType, file.Body)
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки файла в хранилище")
	}
	id, err = i.store.Create(dbmodels.Attachment{
		RequestID:    requestID,
		UploaderID:   userID,
		OriginalName: file.Name,
		ContentType:  file.ContentType,
		Size:         int64(len(file.Body)),
		ObjectKey:    objectKey,
	})
	if err != nil {
		// запись не сохранилась, объект в хранилище больше не нужен
		if removeErr := i.s3.RemoveObject(ctx, objectKey); removeErr != nil {
			log.WithError(removeErr).WithField("object_key", objectKey).
				Error("Ошибка удаления объекта из хранилища")
		}
		return "", errors.Wrap(err, "ошибка сохранения вложения")
	}
	return id, nil
}

func (i impl) Download(ctx context.Context, userID string, isAdmin bool, id string) (file attachmentapimodels.FileData, err error) {
	rec, err := i.getWithAccess(userID, isAdmin, id)
	if err != nil {
		return file, err
	}
	body, err := i.s3.GetObject(ctx, rec.ObjectKey)
	if err != nil {
		return file, errors.Wrap(err, "ошибка чтения файла из хранилища")
	}
	return attachmentapimodels.FileData{
		Name:        rec.OriginalName,
		ContentType: rec.ContentType,
		Body:        body,
	}, nil
}

func (i impl) Delete(ctx context.Context, userID string, isAdmin bool, id string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperrors.NotFound("вложение не найдено")
	}
	if !isAdmin && rec.UploaderID != userID {
		return apperrors.Forbidden("удаление вложения доступно только загрузившему")
	}
	if rec.Request != nil && !rec.Request.Status.CanEdit() {
		return apperrors.Conflict("удаление вложений доступно только для черновика", rec.Request.Status)
	}
	err = i.store.Delete(id)
	if err != nil {
		return err
	}
	if err = i.s3.RemoveObject(ctx, rec.ObjectKey); err != nil {
		log.WithError(err).WithField("object_key", rec.ObjectKey).
			Error("Ошибка удаления объекта из хранилища")
	}
	return nil
}

func (i impl) ListByRequest(userID string, isAdmin bool, requestID string) (list []attachmentapimodels.AttachmentView, err error) {
	reqRec, err := i.requestStore.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if reqRec == nil {
		return nil, apperrors.NotFound("заявка не найдена")
	}
	if !canViewRequest(reqRec, userID, isAdmin) {
		return nil, apperrors.NotFound("заявка не найдена")
	}
	recs, err := i.store.ListByRequest(requestID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка вложений")
	}
	list = make([]attachmentapimodels.AttachmentView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, attachmentapimodels.AttachmentConvert(rec))
	}
	return list, nil
}

func (i impl) getWithAccess(userID string, isAdmin bool, id string) (*dbmodels.Attachment, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NotFound("вложение не найдено")
	}
	if rec.Request == nil {
		return nil, apperrors.NotFound("заявка не найдена")
	}
	reqRec, err := i.requestStore.GetByID(rec.RequestID)
	if err != nil {
		return nil, err
	}
	if reqRec == nil || !canViewRequest(reqRec, userID, isAdmin) {
		return nil, apperrors.NotFound("вложение не найдено")
	}
	return rec, nil
}

func canViewRequest(rec *dbmodels.ApprovalRequest, userID string, isAdmin bool) bool {
	if isAdmin || rec.RequesterID == userID {
		return true
	}
	for _, step := range rec.Steps {
		if step.ApproverID == userID {
			return true
		}
	}
	return false
}
