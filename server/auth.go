package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/skip2/go-qrcode"
)

const (
	ticketExpiry  = 10 * time.Minute
	ticketSubject = "controller"
	qrSize        = 256
)

// Tickets issues and checks the signed pairing tokens that let a phone
// attach as the player's controller
type Tickets struct {
	secret []byte
}

// NewTickets loads the signing secret from prefs, creating it on first run
func NewTickets(prefs PrefStore) *Tickets {
	return &Tickets{secret: loadOrCreateSecret(prefs)}
}

// loadOrCreateSecret loads the signing secret from the store, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(prefs PrefStore) []byte {
	if prefs != nil {
		if h := prefs.GetString(PrefControllerKey, ""); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate controller secret: " + err.Error())
	}
	if prefs != nil {
		if err := prefs.SetString(PrefControllerKey, hex.EncodeToString(secret)); err != nil {
			log.Warn("could not persist controller secret", "err", err)
		}
	}
	return secret
}

// Issue signs a ticket for the given view client
func (t *Tickets) Issue(clientID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": ticketSubject,
		"cid": clientID,
		"jti": GenerateUUID(),
		"iat": now.Unix(),
		"exp": now.Add(ticketExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign ticket: %w", err)
	}
	return s, nil
}

// Validate checks a ticket and returns the view client id it was issued for
func (t *Tickets) Validate(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse ticket: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid ticket")
	}
	if sub, _ := claims["sub"].(string); sub != ticketSubject {
		return "", fmt.Errorf("invalid ticket subject")
	}
	cid, ok := claims["cid"].(string)
	if !ok || cid == "" {
		return "", fmt.Errorf("invalid ticket claims")
	}
	return cid, nil
}

// PairingURL builds the controller page URL carrying a ticket
func PairingURL(base, token string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		u = &url.URL{Scheme: "http", Host: "localhost:8080"}
	}
	u.Path = "/controller"
	q := u.Query()
	q.Set("t", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// PairingQR renders the pairing URL as a PNG
func PairingQR(pairURL string) ([]byte, error) {
	png, err := qrcode.Encode(pairURL, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
