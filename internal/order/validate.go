package order

import (
	"swissshield/internal/letter"
	"swissshield/internal/payment"
	dErrors "swissshield/pkg/domain-errors"
	"swissshield/pkg/email"
)

const missingFieldsMessage = "Missing required fields: please fill in all form fields"

// ValidateSubmission checks a checkout form. Everything except the second
// address line is required. An unknown canton is not a validation error;
// it surfaces later as an unsupported jurisdiction.
func ValidateSubmission(sub letter.Submission) error {
	required := []string{
		string(sub.Canton),
		sub.Zip,
		string(sub.Confession),
		sub.FullName,
		sub.DateOfBirth,
		sub.Email,
		sub.AddressLine1,
		sub.PostalCity,
	}
	for _, v := range required {
		if v == "" {
			return dErrors.New(dErrors.CodeValidation, missingFieldsMessage)
		}
	}
	if !email.Valid(sub.Email) {
		return dErrors.New(dErrors.CodeValidation, "Invalid email address")
	}
	if !sub.Confession.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid confession")
	}
	for _, v := range append(required, sub.AddressLine2) {
		if len(v) > payment.MaxMetadataValue {
			return dErrors.New(dErrors.CodeValidation, "field value is too long")
		}
	}
	// Reject before payment what the letter could not print.
	if err := sub.CheckPrintable(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	return nil
}
