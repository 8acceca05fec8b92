package repositories

import (
	"errors"
	"regexp"

	"taskboard/microservices/projects-service/apperrors"

	"go.mongodb.org/mongo-driver/mongo"
)

const codeDocumentValidationFailure = 121

var (
	dupKeyFieldPattern = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?\s*:`)
	dupIndexPattern    = regexp.MustCompile(`index: ([A-Za-z0-9_.]+?)_(?:-?1|text|hashed)\b`)
)

// translateWriteError maps a driver error onto an apperrors kind.
func translateWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.DuplicateKey(duplicateField(err), err)
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorCode(codeDocumentValidationFailure) {
		return apperrors.SchemaValidation(err)
	}
	return apperrors.Internal(op, err)
}

func translateReadError(op, field string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NotFoundRelated(field, "%s not found", field)
	}
	return apperrors.Internal(op, err)
}

// duplicateField pulls the offending field name out of an E11000 message.
func duplicateField(err error) string {
	msg := err.Error()
	if m := dupKeyFieldPattern.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	if m := dupIndexPattern.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return ""
}
