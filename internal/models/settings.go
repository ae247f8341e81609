package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Singleton is a settings document of which exactly one row exists.
type Singleton interface {
	Base() *BaseModel
	// InitDefaults prepares the document stored when none exists yet.
	InitDefaults()
	// ApplyDefaults fills blank display fields before a document is served.
	ApplyDefaults()
	Validate() error
}

const (
	defaultDealsTitleAr    = "عروض مميزة"
	defaultDealsTitleEn    = "Featured Deals"
	defaultDealsSubtitleAr = "أفضل الأسعار لفترة محدودة"
	defaultDealsSubtitleEn = "Best prices for a limited time"
	defaultDealsCTAAr      = "تسوق الآن"
	defaultDealsCTAEn      = "Shop now"

	defaultOffersTitleAr    = "عروض حصرية"
	defaultOffersTitleEn    = "Exclusive Offers"
	defaultOffersSubtitleAr = "عروض خاصة لعملائنا"
	defaultOffersSubtitleEn = "Special offers for our customers"
	defaultOffersCTAAr      = "اكتشف العروض"
	defaultOffersCTAEn      = "Discover offers"
)

func defaultString(field *string, fallback string) {
	if strings.TrimSpace(*field) == "" {
		*field = fallback
	}
}

// FeaturedDealsSettings drives the "deals" strip on the homepage.
type FeaturedDealsSettings struct {
	BaseModel
	Enabled    bool                        `json:"enabled"`
	TitleAr    string                      `json:"title_ar"`
	TitleEn    string                      `json:"title_en"`
	SubtitleAr string                      `json:"subtitle_ar"`
	SubtitleEn string                      `json:"subtitle_en"`
	CTATextAr  string                      `json:"cta_text_ar"`
	CTATextEn  string                      `json:"cta_text_en"`
	ProductIDs datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"product_ids"`
}

func (s *FeaturedDealsSettings) InitDefaults() {
	s.Enabled = true
	s.ApplyDefaults()
}

func (s *FeaturedDealsSettings) ApplyDefaults() {
	defaultString(&s.TitleAr, defaultDealsTitleAr)
	defaultString(&s.TitleEn, defaultDealsTitleEn)
	defaultString(&s.SubtitleAr, defaultDealsSubtitleAr)
	defaultString(&s.SubtitleEn, defaultDealsSubtitleEn)
	defaultString(&s.CTATextAr, defaultDealsCTAAr)
	defaultString(&s.CTATextEn, defaultDealsCTAEn)
	if s.ProductIDs == nil {
		s.ProductIDs = datatypes.JSONSlice[string]{}
	}
}

func (s *FeaturedDealsSettings) Validate() error {
	return nil
}

// ExclusiveOffer is a single promotional card.
type ExclusiveOffer struct {
	TitleAr  string `json:"title_ar"`
	TitleEn  string `json:"title_en"`
	ImageURL string `json:"image_url"`
	Link     string `json:"link"`
	Badge    string `json:"badge,omitempty"`
}

type ExclusiveOffersSettings struct {
	BaseModel
	Enabled    bool                                `json:"enabled"`
	TitleAr    string                              `json:"title_ar"`
	TitleEn    string                              `json:"title_en"`
	SubtitleAr string                              `json:"subtitle_ar"`
	SubtitleEn string                              `json:"subtitle_en"`
	CTATextAr  string                              `json:"cta_text_ar"`
	CTATextEn  string                              `json:"cta_text_en"`
	Offers     datatypes.JSONSlice[ExclusiveOffer] `gorm:"type:jsonb" json:"offers"`
}

func (s *ExclusiveOffersSettings) InitDefaults() {
	s.Enabled = true
	s.ApplyDefaults()
}

func (s *ExclusiveOffersSettings) ApplyDefaults() {
	defaultString(&s.TitleAr, defaultOffersTitleAr)
	defaultString(&s.TitleEn, defaultOffersTitleEn)
	defaultString(&s.SubtitleAr, defaultOffersSubtitleAr)
	defaultString(&s.SubtitleEn, defaultOffersSubtitleEn)
	defaultString(&s.CTATextAr, defaultOffersCTAAr)
	defaultString(&s.CTATextEn, defaultOffersCTAEn)
	if s.Offers == nil {
		s.Offers = datatypes.JSONSlice[ExclusiveOffer]{}
	}
}

func (s *ExclusiveOffersSettings) Validate() error {
	for i, offer := range s.Offers {
		if strings.TrimSpace(offer.TitleAr) == "" && strings.TrimSpace(offer.TitleEn) == "" {
			return fmt.Errorf("offer %d needs a title", i+1)
		}
	}
	return nil
}

// GatewayConfig holds the credentials of one hosted payment gateway.
type GatewayConfig struct {
	Enabled   bool   `json:"enabled"`
	PublicKey string `json:"public_key"`
	SecretKey string `json:"secret_key"`
	Mode      string `json:"mode"`
}

// TamaraConfig holds Tamara's token based credentials.
type TamaraConfig struct {
	Enabled           bool   `json:"enabled"`
	APIToken          string `json:"api_token"`
	NotificationToken string `json:"notification_token"`
	Mode              string `json:"mode"`
}

type PaymentSettings struct {
	BaseModel
	CODEnabled bool            `json:"cod_enabled"`
	CODFee     decimal.Decimal `gorm:"type:numeric(12,2)" json:"cod_fee"`
	Tap        GatewayConfig   `gorm:"embedded;embeddedPrefix:tap_" json:"tap"`
	Tamara     TamaraConfig    `gorm:"embedded;embeddedPrefix:tamara_" json:"tamara"`
	Tabby      GatewayConfig   `gorm:"embedded;embeddedPrefix:tabby_" json:"tabby"`
}

const (
	GatewayModeTest = "test"
	GatewayModeLive = "live"
)

func defaultMode(mode *string) {
	if strings.TrimSpace(*mode) == "" {
		*mode = GatewayModeTest
	}
}

func (s *PaymentSettings) InitDefaults() {
	s.CODEnabled = true
	s.ApplyDefaults()
}

func (s *PaymentSettings) ApplyDefaults() {
	defaultMode(&s.Tap.Mode)
	defaultMode(&s.Tamara.Mode)
	defaultMode(&s.Tabby.Mode)
}

func validMode(mode string) bool {
	return mode == "" || mode == GatewayModeTest || mode == GatewayModeLive
}

func (s *PaymentSettings) Validate() error {
	if s.CODFee.IsNegative() {
		return errors.New("cod_fee cannot be negative")
	}
	if !validMode(s.Tap.Mode) || !validMode(s.Tamara.Mode) || !validMode(s.Tabby.Mode) {
		return errors.New("mode must be test or live")
	}
	if s.Tap.Enabled && (s.Tap.PublicKey == "" || s.Tap.SecretKey == "") {
		return errors.New("tap requires public_key and secret_key")
	}
	if s.Tamara.Enabled && s.Tamara.APIToken == "" {
		return errors.New("tamara requires api_token")
	}
	if s.Tabby.Enabled && (s.Tabby.PublicKey == "" || s.Tabby.SecretKey == "") {
		return errors.New("tabby requires public_key and secret_key")
	}
	return nil
}

// EnabledMethods lists the payment methods a customer may pick at checkout.
func (s *PaymentSettings) EnabledMethods() []PaymentMethod {
	methods := make([]PaymentMethod, 0, 4)
	if s.CODEnabled {
		methods = append(methods, PaymentMethodCOD)
	}
	if s.Tap.Enabled {
		methods = append(methods, PaymentMethodTap)
	}
	if s.Tamara.Enabled {
		methods = append(methods, PaymentMethodTamara)
	}
	if s.Tabby.Enabled {
		methods = append(methods, PaymentMethodTabby)
	}
	return methods
}

// MethodEnabled reports whether m can be used at checkout.
func (s *PaymentSettings) MethodEnabled(m PaymentMethod) bool {
	for _, enabled := range s.EnabledMethods() {
		if enabled == m {
			return true
		}
	}
	return false
}

// ShippingProvider is a carrier shown to customers at checkout.
type ShippingProvider struct {
	Code          string `json:"code"`
	NameAr        string `json:"name_ar"`
	NameEn        string `json:"name_en"`
	Enabled       bool   `json:"enabled"`
	EstimatedDays int    `json:"estimated_days"`
}

type ShippingSettings struct {
	BaseModel
	Enabled               bool                                  `json:"enabled"`
	FlatRate              decimal.Decimal                       `gorm:"type:numeric(12,2)" json:"flat_rate"`
	FreeShippingThreshold decimal.Decimal                       `gorm:"type:numeric(12,2)" json:"free_shipping_threshold"`
	Providers             datatypes.JSONSlice[ShippingProvider] `gorm:"type:jsonb" json:"providers"`
}

func (s *ShippingSettings) InitDefaults() {
	s.Enabled = true
	s.FlatRate = decimal.NewFromInt(25)
	s.FreeShippingThreshold = decimal.NewFromInt(300)
	s.ApplyDefaults()
}

func (s *ShippingSettings) ApplyDefaults() {
	if s.Providers == nil {
		s.Providers = datatypes.JSONSlice[ShippingProvider]{}
	}
}

func (s *ShippingSettings) Validate() error {
	if s.FlatRate.IsNegative() || s.FreeShippingThreshold.IsNegative() {
		return errors.New("shipping amounts cannot be negative")
	}
	seen := make(map[string]bool, len(s.Providers))
	for _, p := range s.Providers {
		if strings.TrimSpace(p.Code) == "" {
			return errors.New("provider code is required")
		}
		if seen[p.Code] {
			return fmt.Errorf("duplicate provider code %q", p.Code)
		}
		seen[p.Code] = true
	}
	return nil
}

// CostFor returns the shipping charge for an order subtotal.
func (s *ShippingSettings) CostFor(subtotal decimal.Decimal) decimal.Decimal {
	if !s.Enabled {
		return decimal.Zero
	}
	if s.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(s.FreeShippingThreshold) {
		return decimal.Zero
	}
	return s.FlatRate
}
