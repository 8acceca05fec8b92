package repositories

import (
	"errors"
	"testing"

	"taskboard/microservices/projects-service/apperrors"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func writeException(code int, msg string) error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Index: 0, Code: code, Message: msg}}}
}

func TestTranslateWriteError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantKind  apperrors.Kind
		wantField string
	}{
		{
			name:      "duplicate title",
			err:       writeException(11000, `E11000 duplicate key error collection: projects_db.projects index: title_1 dup key: { title: "Website" }`),
			wantKind:  apperrors.KindDuplicateKey,
			wantField: "title",
		},
		{
			name:      "duplicate without dup key section",
			err:       writeException(11000, `E11000 duplicate key error collection: projects_db.projects index: title_1`),
			wantKind:  apperrors.KindDuplicateKey,
			wantField: "title",
		},
		{
			name:     "document validation",
			err:      writeException(121, "Document failed validation"),
			wantKind: apperrors.KindSchemaValidation,
		},
		{
			name:     "anything else",
			err:      errors.New("socket closed"),
			wantKind: apperrors.KindInternal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := translateWriteError("failed to create project", tc.err)

			assert.Equal(t, tc.wantKind, apperrors.KindOf(err))
			var appErr *apperrors.Error
			if assert.ErrorAs(t, err, &appErr) {
				assert.Equal(t, tc.wantField, appErr.Field)
			}
		})
	}
}

func TestTranslateWriteError_Nil(t *testing.T) {
	assert.NoError(t, translateWriteError("noop", nil))
}

func TestTranslateReadError(t *testing.T) {
	assert.Equal(t, apperrors.KindNotFoundRelated, apperrors.KindOf(translateReadError("fetch", "project", mongo.ErrNoDocuments)))
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(translateReadError("fetch", "project", errors.New("timeout"))))
}
