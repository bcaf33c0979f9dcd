package service

import (
	"net/url"
	"strings"
)

// Links builds the URLs handed to students. The QR code always encodes the
// public profile URL.
type Links struct {
	baseURL string
}

func NewLinks(appBaseURL string) Links {
	return Links{baseURL: strings.TrimRight(strings.TrimSpace(appBaseURL), "/")}
}

func (l Links) PublicProfileURL(slug string) string {
	return l.baseURL + "/p/" + url.PathEscape(slug)
}

func (l Links) DashboardURL(slug, accessToken string) string {
	return l.baseURL + "/student/" + url.PathEscape(slug) + "/dashboard?token=" + url.QueryEscape(accessToken)
}
