package config

import (
	"strings"
	"time"
)

// AppVersion is the version of the service.
var AppVersion = "1.0.0"

// AppName is the name of the service.
const AppName = "Chronophoto"

// ConfigSubDir is the sub directory of the user's home holding the config file.
var ConfigSubDir = "." + strings.ToLower(AppName)

// ConfigFileName is the name of the config file.
const ConfigFileName = "config.json"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHRONOPHOTO_"

// Defaults
const (
	DefaultListenAddr     = "127.0.0.1:49452"
	DefaultAPIBaseURL     = "https://commons.wikimedia.org/w/api.php"
	DefaultUserAgent      = "Chronophoto/1.0 (https://github.com/dixieflatline76/Chronophoto; contact@dixieflatline.com)"
	DefaultThumbWidth     = 800
	DefaultInterval       = time.Minute
	DefaultFadeDelay      = time.Second
	DefaultLoadTimeout    = 30 * time.Second
	DefaultRequestTimeout = 20 * time.Second
	DefaultRequestRate    = 5.0
	DefaultRequestBurst   = 2
)
