// Package uploads hands out signed parameters for direct-to-Cloudinary
// quote photo uploads, the object-storage collaborator of the quote
// form.
package uploads

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
)

// UploadTicket carries everything the browser needs to POST an image
// straight to storage.
type UploadTicket struct {
	UploadURL string `json:"uploadURL"`
	APIKey    string `json:"apiKey"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
	Folder    string `json:"folder"`
}

type Signer interface {
	SignUpload(ctx context.Context) (*UploadTicket, error)
	// NormalizeURL checks a delivered image URL against our storage and
	// returns the canonical object path served back to clients.
	NormalizeURL(rawURL string) (string, error)
}

type CloudinarySigner struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
}

func NewCloudinarySigner(cloudName, apiKey, apiSecret, folder string) *CloudinarySigner {
	return &CloudinarySigner{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
	}
}

func (s *CloudinarySigner) SignUpload(_ context.Context) (*UploadTicket, error) {
	ts := time.Now().Unix()
	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(ts, 10))
	params.Set("folder", s.folder)

	signature, err := api.SignParameters(params, s.apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload parameters: %w", err)
	}

	return &UploadTicket{
		UploadURL: fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", s.cloudName),
		APIKey:    s.apiKey,
		Timestamp: ts,
		Signature: signature,
		Folder:    s.folder,
	}, nil
}

func (s *CloudinarySigner) NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid image URL: %w", err)
	}
	if u.Host != "res.cloudinary.com" || !strings.HasPrefix(u.Path, "/"+s.cloudName+"/") {
		return "", fmt.Errorf("image URL does not belong to our storage")
	}

	idx := strings.Index(u.Path, "/upload/")
	if idx == -1 {
		return "", fmt.Errorf("image URL does not belong to our storage")
	}
	return "/objects/" + strings.TrimPrefix(u.Path[idx+len("/upload/"):], "/"), nil
}

// DevSigner issues unsigned local tickets so the quote form works
// without Cloudinary credentials.
type DevSigner struct{}

func NewDevSigner() *DevSigner {
	return &DevSigner{}
}

func (d *DevSigner) SignUpload(_ context.Context) (*UploadTicket, error) {
	return &UploadTicket{
		UploadURL: "/dev/upload",
		Timestamp: time.Now().Unix(),
		Folder:    "dev",
	}, nil
}

func (d *DevSigner) NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid image URL: %w", err)
	}
	return "/objects/" + strings.TrimPrefix(u.Path, "/"), nil
}
