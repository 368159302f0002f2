package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli"

	"github.com/kinohive-io/kino-addon/services/host"
)

const (
	profileDirFlag    = "profile-dir"
	scraperEnabled    = "scraper-enabled"
	scraperTimeout    = "scraper-timeout"
	maxSourcesFlag    = "max-sources"
	qualityFilterFlag = "quality-filter"
	autoPlayBestFlag  = "auto-play-best"
	dedupSourcesFlag  = "dedup-sources"
	realDebridKeyFlag = "realdebrid-key"
	premiumizeKeyFlag = "premiumize-key"
	allDebridKeyFlag  = "alldebrid-key"
	torboxKeyFlag     = "torbox-key"
)

func registerSettingsFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   profileDirFlag,
			Usage:  "addon profile directory",
			EnvVar: "KINO_PROFILE_DIR",
		},
		cli.BoolTFlag{
			Name:   scraperEnabled,
			Usage:  "enable the scraper subsystem",
			EnvVar: "KINO_SCRAPER_ENABLED",
		},
		cli.IntFlag{
			Name:   scraperTimeout,
			Usage:  "scraper wall-clock budget in seconds",
			Value:  30,
			EnvVar: "KINO_SCRAPER_TIMEOUT",
		},
		cli.IntFlag{
			Name:   maxSourcesFlag,
			Usage:  "maximum sources kept after ranking",
			Value:  25,
			EnvVar: "KINO_MAX_SOURCES",
		},
		cli.StringFlag{
			Name:   qualityFilterFlag,
			Usage:  "minimum quality (all, 1080p, 720p, 480p)",
			Value:  "all",
			EnvVar: "KINO_QUALITY_FILTER",
		},
		cli.BoolTFlag{
			Name:   autoPlayBestFlag,
			Usage:  "play the best source without asking",
			EnvVar: "KINO_AUTO_PLAY_BEST",
		},
		cli.BoolTFlag{
			Name:   dedupSourcesFlag,
			Usage:  "deduplicate sources by url before ranking",
			EnvVar: "KINO_DEDUP_SOURCES",
		},
		cli.StringFlag{
			Name:   realDebridKeyFlag,
			Usage:  "real-debrid api key",
			EnvVar: "REALDEBRID_API_KEY",
		},
		cli.StringFlag{
			Name:   premiumizeKeyFlag,
			Usage:  "premiumize api key",
			EnvVar: "PREMIUMIZE_API_KEY",
		},
		cli.StringFlag{
			Name:   allDebridKeyFlag,
			Usage:  "alldebrid api key",
			EnvVar: "ALLDEBRID_API_KEY",
		},
		cli.StringFlag{
			Name:   torboxKeyFlag,
			Usage:  "torbox api key",
			EnvVar: "TORBOX_API_KEY",
		},
	)
}

// settingsFromContext maps harness flags onto the host settings keys the
// core reads.
func settingsFromContext(c *cli.Context) host.MapSettings {
	return host.MapSettings{
		host.SettingScraperEnabled: strconv.FormatBool(c.BoolT(scraperEnabled)),
		host.SettingScraperTimeout: strconv.Itoa(c.Int(scraperTimeout)),
		host.SettingMaxSources:     strconv.Itoa(c.Int(maxSourcesFlag)),
		host.SettingQualityFilter:  c.String(qualityFilterFlag),
		host.SettingAutoPlayBest:   strconv.FormatBool(c.BoolT(autoPlayBestFlag)),
		host.SettingDedupSources:   strconv.FormatBool(c.BoolT(dedupSourcesFlag)),

		host.DebridKeySetting("realdebrid"): c.String(realDebridKeyFlag),
		host.DebridKeySetting("premiumize"): c.String(premiumizeKeyFlag),
		host.DebridKeySetting("alldebrid"):  c.String(allDebridKeyFlag),
		host.DebridKeySetting("torbox"):     c.String(torboxKeyFlag),
	}
}

func profileDir(c *cli.Context) string {
	if dir := c.String(profileDirFlag); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kino-addon"
	}
	return filepath.Join(home, ".kino-addon")
}
