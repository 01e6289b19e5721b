package handler

import (
	"strings"

	"swissshield/internal/directory"
	"swissshield/internal/letter"
	"swissshield/internal/order"
	"swissshield/pkg/domain"
)

// CheckoutRequest is the resignation form.
type CheckoutRequest struct {
	Canton       string `json:"canton"`
	Zip          string `json:"zip"`
	Confession   string `json:"confession"`
	FullName     string `json:"full_name"`
	DateOfBirth  string `json:"date_of_birth"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	PostalCity   string `json:"postal_city"`
	Email        string `json:"email"`
}

// Validate trims every field, then applies the checkout form rules.
func (r *CheckoutRequest) Validate() error {
	for _, f := range []*string{
		&r.Canton, &r.Zip, &r.Confession, &r.FullName, &r.DateOfBirth,
		&r.AddressLine1, &r.AddressLine2, &r.PostalCity, &r.Email,
	} {
		*f = strings.TrimSpace(*f)
	}
	r.Canton = strings.ToUpper(r.Canton)
	return order.ValidateSubmission(r.Submission())
}

func (r *CheckoutRequest) Submission() letter.Submission {
	return letter.Submission{
		Canton:       domain.Canton(r.Canton),
		Zip:          r.Zip,
		Confession:   domain.Confession(r.Confession),
		FullName:     r.FullName,
		DateOfBirth:  r.DateOfBirth,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		PostalCity:   r.PostalCity,
		Email:        r.Email,
	}
}

type CheckoutResponse struct {
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type AddressResponse struct {
	ID            string `json:"id"`
	RecipientName string `json:"recipient_name"`
	Addr1         string `json:"addr1"`
	Addr2         string `json:"addr2,omitempty"`
	Postal        string `json:"postal"`
	City          string `json:"city"`
	Country       string `json:"country"`
}

type PreviewResponse struct {
	Found   bool             `json:"found"`
	Match   string           `json:"match"`
	Message string           `json:"message,omitempty"`
	Address *AddressResponse `json:"address"`
}

type Choice struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CoverageResponse struct {
	Cantons     []Choice `json:"cantons"`
	Confessions []Choice `json:"confessions"`
}

type RecipientResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Postal  string `json:"postal"`
	City    string `json:"city"`
}

type OrderSummaryResponse struct {
	Canton       string `json:"canton"`
	Confession   string `json:"confession"`
	CustomerName string `json:"customer_name"`
}

type OrderInfoResponse struct {
	Recipient     *RecipientResponse   `json:"recipient"`
	OrderInfo     OrderSummaryResponse `json:"order_info"`
	DownloadToken string               `json:"download_token"`
	DownloadURL   string               `json:"download_url"`
}

func toPreviewResponse(m directory.MatchResult) *PreviewResponse {
	resp := &PreviewResponse{
		Found:   m.Found(),
		Match:   string(m.Kind),
		Message: m.Message,
	}
	if a := m.Address; a != nil {
		resp.Address = &AddressResponse{
			ID:            a.ID,
			RecipientName: a.RecipientName,
			Addr1:         a.Addr1,
			Addr2:         a.Addr2,
			Postal:        a.Postal,
			City:          a.City,
			Country:       a.Country,
		}
	}
	return resp
}

func toCoverageResponse(c order.Coverage) *CoverageResponse {
	resp := &CoverageResponse{
		Cantons:     make([]Choice, 0, len(c.Cantons)),
		Confessions: make([]Choice, 0, len(c.Confessions)),
	}
	for _, canton := range c.Cantons {
		resp.Cantons = append(resp.Cantons, Choice{Code: string(canton), Name: directory.CantonName(canton)})
	}
	for _, conf := range c.Confessions {
		resp.Confessions = append(resp.Confessions, Choice{Code: string(conf), Name: directory.ConfessionName(conf)})
	}
	return resp
}

func toOrderInfoResponse(info *order.OrderInfo) *OrderInfoResponse {
	resp := &OrderInfoResponse{
		OrderInfo: OrderSummaryResponse{
			Canton:       info.Summary.Canton,
			Confession:   info.Summary.Confession,
			CustomerName: info.Summary.CustomerName,
		},
		DownloadToken: info.DownloadToken,
		DownloadURL:   info.DownloadURL,
	}
	if r := info.Recipient; r != nil {
		resp.Recipient = &RecipientResponse{
			Name:    r.Name,
			Address: r.Address,
			Postal:  r.Postal,
			City:    r.City,
		}
	}
	return resp
}
