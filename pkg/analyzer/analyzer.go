// Package analyzer scores a URL for common scam signals. It is a heuristic
// screen for the educational frontend, not a verdict.
package analyzer

import (
	"net"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Assessment struct {
	URL      string    `json:"url"`
	Risk     RiskLevel `json:"risk"`
	Score    int       `json:"score"`
	Findings []string  `json:"findings"`
}

var shortenerHosts = map[string]struct{}{
	"bit.ly":      {},
	"tinyurl.com": {},
	"goo.gl":      {},
	"t.co":        {},
	"ow.ly":       {},
	"is.gd":       {},
	"buff.ly":     {},
	"rebrand.ly":  {},
	"cutt.ly":     {},
	"shorturl.at": {},
}

var baitWords = []string{
	"login", "verify", "account", "secure", "update",
	"bank", "wallet", "crypto", "gift", "prize", "urgent",
}

type Analyzer struct {
	logger *logrus.Logger
}

func NewAnalyzer(logger *logrus.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

func (a *Analyzer) Assess(rawURL string) Assessment {
	assessment := Assessment{URL: rawURL, Findings: []string{}}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		assessment.Risk = RiskHigh
		assessment.Score = 100
		assessment.Findings = append(assessment.Findings, "URL could not be parsed")
		return assessment
	}

	host := strings.ToLower(parsed.Hostname())

	if parsed.Scheme != "https" {
		assessment.Score += 20
		assessment.Findings = append(assessment.Findings, "Connection is not encrypted (no HTTPS)")
	}
	if _, ok := shortenerHosts[host]; ok {
		assessment.Score += 30
		assessment.Findings = append(assessment.Findings, "Shortened URL hides the real destination")
	}
	if net.ParseIP(host) != nil {
		assessment.Score += 30
		assessment.Findings = append(assessment.Findings, "Address is a raw IP instead of a domain name")
	}
	if parsed.User != nil {
		assessment.Score += 30
		assessment.Findings = append(assessment.Findings, "URL embeds credentials before the host")
	}
	if strings.Count(host, ".") >= 4 {
		assessment.Score += 15
		assessment.Findings = append(assessment.Findings, "Unusually deep subdomain chain")
	}

	lowered := strings.ToLower(host + parsed.Path)
	for _, word := range baitWords {
		if strings.Contains(lowered, word) {
			assessment.Score += 10
			assessment.Findings = append(assessment.Findings, "Contains bait wording: "+word)
			break
		}
	}

	switch {
	case assessment.Score >= 50:
		assessment.Risk = RiskHigh
	case assessment.Score >= 20:
		assessment.Risk = RiskMedium
	default:
		assessment.Risk = RiskLow
	}

	a.logger.WithFields(logrus.Fields{
		"host": host,
		"risk": assessment.Risk,
	}).Debug("url assessed")

	return assessment
}
