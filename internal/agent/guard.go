package agent

import (
	"fmt"
	"net/url"
	"strings"
)

// Финансовые и государственные сервисы агент не заполняет без явного разрешения.
var criticalDomains = map[string]string{
	"sberbank.ru":       "банк",
	"alfabank.ru":       "банк",
	"vtb.ru":            "банк",
	"tinkoff.ru":        "банк",
	"bankofamerica.com": "банк",
	"chase.com":         "банк",
	"wellsfargo.com":    "банк",
	"citibank.com":      "банк",
	"paypal.com":        "платежи",
	"stripe.com":        "платежи",
	"qiwi.com":          "платежи",
	"binance.com":       "криптобиржа",
	"coinbase.com":      "криптобиржа",
	"gosuslugi.ru":      "госуслуги",
	"nalog.gov.ru":      "налоговая",
	"irs.gov":           "налоговая",
}

// Админ-панели не бывают целью заполнения.
var blockedPaths = []string{
	"/admin",
	"/administrator",
	"/wp-admin",
	"/phpmyadmin",
	"/cpanel",
}

// checkURL проверяет адрес перед навигацией.
func checkURL(raw string, allowCritical bool) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBlockedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: схема %q", ErrBlockedURL, u.Scheme)
	}

	path := strings.ToLower(u.Path)
	for _, p := range blockedPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return fmt.Errorf("%w: %s", ErrBlockedURL, p)
		}
	}

	if allowCritical {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	for domain, kind := range criticalDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return fmt.Errorf("%w: %s (%s)", ErrCriticalDomain, host, kind)
		}
	}
	return nil
}
