package payment

import (
	"swissshield/internal/letter"
	"swissshield/pkg/domain"
	dErrors "swissshield/pkg/domain-errors"
)

// Metadata keys carried on a checkout session.
const (
	KeyCanton       = "canton"
	KeyZip          = "zip"
	KeyConfession   = "confession"
	KeyFullName     = "fullName"
	KeyDateOfBirth  = "dateOfBirth"
	KeyAddressLine1 = "addressLine1"
	KeyAddressLine2 = "addressLine2"
	KeyPostalCity   = "postalCity"
	KeyEmail        = "email"
	KeyRecipientID  = "recipientId"
	KeyOrderID      = "orderId"
)

// MaxMetadataValue is the provider limit on a metadata value, in bytes.
const MaxMetadataValue = 500

// EncodeOrder writes a submission and its resolved recipient into session metadata.
func EncodeOrder(sub letter.Submission, recipientID string) map[string]string {
	return map[string]string{
		KeyCanton:       string(sub.Canton),
		KeyZip:          sub.Zip,
		KeyConfession:   string(sub.Confession),
		KeyFullName:     sub.FullName,
		KeyDateOfBirth:  sub.DateOfBirth,
		KeyAddressLine1: sub.AddressLine1,
		KeyAddressLine2: sub.AddressLine2,
		KeyPostalCity:   sub.PostalCity,
		KeyEmail:        sub.Email,
		KeyRecipientID:  recipientID,
	}
}

// DecodeOrder rebuilds the submission from session metadata. Missing
// optional fields decode to "". An unknown canton or confession is a
// CodeInvalidInput error.
func DecodeOrder(md map[string]string) (letter.Submission, string, error) {
	canton, err := domain.ParseCanton(md[KeyCanton])
	if err != nil {
		return letter.Submission{}, "", err
	}
	confession, err := domain.ParseConfession(md[KeyConfession])
	if err != nil {
		return letter.Submission{}, "", err
	}
	if md[KeyFullName] == "" {
		return letter.Submission{}, "", dErrors.New(dErrors.CodeInvalidInput, "order metadata is missing the full name")
	}
	sub := letter.Submission{
		Canton:       canton,
		Zip:          md[KeyZip],
		Confession:   confession,
		FullName:     md[KeyFullName],
		DateOfBirth:  md[KeyDateOfBirth],
		AddressLine1: md[KeyAddressLine1],
		AddressLine2: md[KeyAddressLine2],
		PostalCity:   md[KeyPostalCity],
		Email:        md[KeyEmail],
	}
	return sub, md[KeyRecipientID], nil
}
