// Package qr holds the QuickQR domain model shared by the client and the
// backend: typed QR content with its payload encoders, the visual style
// record, saved codes and the render options composed from them.
package qr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ContentType is the discriminant of Content.
type ContentType string

const (
	TypeURL      ContentType = "url"
	TypeText     ContentType = "text"
	TypeEmail    ContentType = "email"
	TypePhone    ContentType = "phone"
	TypeSMS      ContentType = "sms"
	TypeVCard    ContentType = "vcard"
	TypeMeCard   ContentType = "mecard"
	TypeLocation ContentType = "location"
	TypeFacebook ContentType = "facebook"
	TypeTwitter  ContentType = "twitter"
	TypeYouTube  ContentType = "youtube"
	TypeWifi     ContentType = "wifi"
	TypeEvent    ContentType = "event"
)

// ContentTypes lists every supported content type in menu order.
var ContentTypes = []ContentType{
	TypeURL, TypeText, TypeEmail, TypePhone, TypeSMS, TypeVCard, TypeMeCard,
	TypeLocation, TypeFacebook, TypeTwitter, TypeYouTube, TypeWifi, TypeEvent,
}

var (
	ErrUnknownContentType = errors.New("unknown content type")
	ErrUnknownField       = errors.New("unknown field")
)

// ParseContentType validates a content type tag.
func ParseContentType(s string) (ContentType, error) {
	t := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := contentFields[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownContentType, s)
	}
	return t, nil
}

// Wifi encryption values.
const (
	EncryptionWPA  = "WPA"
	EncryptionWEP  = "WEP"
	EncryptionNone = "none"
)

// Variant is one arm of the Content union.
type Variant interface {
	Payload() string
}

type URLContent struct {
	URL string `json:"url"`
}

type TextContent struct {
	Text string `json:"text"`
}

type EmailContent struct {
	Address string `json:"address"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

type PhoneContent struct {
	Number string `json:"number"`
}

type SMSContent struct {
	Number  string `json:"number"`
	Message string `json:"message,omitempty"`
}

type VCardContent struct {
	Name  string `json:"name"`
	Org   string `json:"org,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

type MeCardContent struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// LocationContent keeps coordinates as typed text so partially entered
// values survive until the user finishes typing.
type LocationContent struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// SocialContent is a profile link; Facebook, Twitter and YouTube share it.
type SocialContent struct {
	URL string `json:"url"`
}

type WifiContent struct {
	SSID       string `json:"ssid"`
	Password   string `json:"password"`
	Encryption string `json:"encryption"`
}

type EventContent struct {
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// Content is the tagged union of everything a QR code can carry. All
// variants are kept side by side: switching Type never discards what was
// typed into another variant.
type Content struct {
	Type ContentType

	URL      URLContent
	Text     TextContent
	Email    EmailContent
	Phone    PhoneContent
	SMS      SMSContent
	VCard    VCardContent
	MeCard   MeCardContent
	Location LocationContent
	Facebook SocialContent
	Twitter  SocialContent
	YouTube  SocialContent
	Wifi     WifiContent
	Event    EventContent
}

// NewContent returns a record of type t with type specific defaults.
// Unknown types fall back to TypeURL.
func NewContent(t ContentType) Content {
	c := Content{Type: t}
	if _, ok := contentFields[t]; !ok {
		c.Type = TypeURL
	}
	c.Wifi.Encryption = EncryptionWPA
	return c
}

type field struct {
	name string
	ptr  func(c *Content) *string
}

// contentFields is the single place that maps a field name of a variant to
// its storage. Order matches the editing form.
var contentFields = map[ContentType][]field{
	TypeURL:  {{"url", func(c *Content) *string { return &c.URL.URL }}},
	TypeText: {{"text", func(c *Content) *string { return &c.Text.Text }}},
	TypeEmail: {
		{"address", func(c *Content) *string { return &c.Email.Address }},
		{"subject", func(c *Content) *string { return &c.Email.Subject }},
		{"body", func(c *Content) *string { return &c.Email.Body }},
	},
	TypePhone: {{"number", func(c *Content) *string { return &c.Phone.Number }}},
	TypeSMS: {
		{"number", func(c *Content) *string { return &c.SMS.Number }},
		{"message", func(c *Content) *string { return &c.SMS.Message }},
	},
	TypeVCard: {
		{"name", func(c *Content) *string { return &c.VCard.Name }},
		{"org", func(c *Content) *string { return &c.VCard.Org }},
		{"phone", func(c *Content) *string { return &c.VCard.Phone }},
		{"email", func(c *Content) *string { return &c.VCard.Email }},
		{"url", func(c *Content) *string { return &c.VCard.URL }},
	},
	TypeMeCard: {
		{"name", func(c *Content) *string { return &c.MeCard.Name }},
		{"phone", func(c *Content) *string { return &c.MeCard.Phone }},
		{"email", func(c *Content) *string { return &c.MeCard.Email }},
	},
	TypeLocation: {
		{"latitude", func(c *Content) *string { return &c.Location.Latitude }},
		{"longitude", func(c *Content) *string { return &c.Location.Longitude }},
	},
	TypeFacebook: {{"url", func(c *Content) *string { return &c.Facebook.URL }}},
	TypeTwitter:  {{"url", func(c *Content) *string { return &c.Twitter.URL }}},
	TypeYouTube:  {{"url", func(c *Content) *string { return &c.YouTube.URL }}},
	TypeWifi: {
		{"ssid", func(c *Content) *string { return &c.Wifi.SSID }},
		{"password", func(c *Content) *string { return &c.Wifi.Password }},
		{"encryption", func(c *Content) *string { return &c.Wifi.Encryption }},
	},
	TypeEvent: {
		{"title", func(c *Content) *string { return &c.Event.Title }},
		{"location", func(c *Content) *string { return &c.Event.Location }},
		{"start", func(c *Content) *string { return &c.Event.Start }},
		{"end", func(c *Content) *string { return &c.Event.End }},
	},
}

// SetType switches the active variant. Field values of every variant are
// left untouched.
func (c *Content) SetType(t ContentType) error {
	if _, ok := contentFields[t]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownContentType, t)
	}
	c.Type = t
	return nil
}

// SetField writes one field of the active variant.
func (c *Content) SetField(name, value string) error {
	p, err := c.lookup(name)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// Field reads one field of the active variant.
func (c *Content) Field(name string) (string, error) {
	p, err := c.lookup(name)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Fields returns the field names of the active variant in form order.
func (c *Content) Fields() []string {
	return FieldsOf(c.Type)
}

// FieldsOf returns the field names of content type t.
func FieldsOf(t ContentType) []string {
	fs := contentFields[t]
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.name
	}
	return names
}

func (c *Content) lookup(name string) (*string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range contentFields[c.Type] {
		if f.name == name {
			return f.ptr(c), nil
		}
	}
	return nil, fmt.Errorf("%w %q for %s", ErrUnknownField, name, c.Type)
}

// Active returns the variant selected by Type.
func (c Content) Active() Variant {
	v, _ := c.variant().(Variant)
	return v
}

// variant returns a pointer to the active variant struct.
func (c *Content) variant() any {
	switch c.Type {
	case TypeURL:
		return &c.URL
	case TypeText:
		return &c.Text
	case TypeEmail:
		return &c.Email
	case TypePhone:
		return &c.Phone
	case TypeSMS:
		return &c.SMS
	case TypeVCard:
		return &c.VCard
	case TypeMeCard:
		return &c.MeCard
	case TypeLocation:
		return &c.Location
	case TypeFacebook:
		return &c.Facebook
	case TypeTwitter:
		return &c.Twitter
	case TypeYouTube:
		return &c.YouTube
	case TypeWifi:
		return &c.Wifi
	case TypeEvent:
		return &c.Event
	default:
		return &c.URL
	}
}

// MarshalContent serializes the active variant as a flat JSON object. The
// type tag travels separately.
func MarshalContent(c Content) ([]byte, error) {
	b, err := json.Marshal(c.variant())
	if err != nil {
		return nil, fmt.Errorf("marshal %s content: %w", c.Type, err)
	}
	return b, nil
}

// LoadContent rebuilds a record of type t from its persisted JSON. Missing
// keys keep their defaults; null, empty or malformed JSON yields the
// defaults for t.
func LoadContent(raw []byte, t ContentType) Content {
	c := NewContent(t)
	if isBlankJSON(raw) {
		return c
	}
	// a type mismatch on one key still fills the others
	_ = json.Unmarshal(raw, c.variant())
	if c.Type == TypeWifi && c.Wifi.Encryption == "" {
		c.Wifi.Encryption = EncryptionWPA
	}
	return c
}

func isBlankJSON(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
