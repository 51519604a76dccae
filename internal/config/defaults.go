package config

const (
	defaultDataDir                = "~/.local/share/marquee"
	defaultLogDir                 = "~/.local/share/marquee/logs"
	defaultTMDBLanguage           = "en-US"
	defaultTMDBRegion             = "US"
	defaultTMDBBaseURL            = "https://api.themoviedb.org/3"
	defaultTMDBTimeoutSeconds     = 10
	defaultTMDBRequestsPerSecond  = 20
	defaultTMDBBurst              = 10
	defaultTMDBBreakerFailures    = 5
	defaultTMDBBreakerCooldown    = 30
	defaultTMDBTrendingPages      = 8
	defaultTMDBUpcomingPages      = 13
	defaultAnniversarySpreadDays  = 3
	defaultMaxItems               = 10
	defaultEnrichLimit            = 50
	defaultEnrichWorkers          = 5
	defaultMinVoteCount           = 300
	defaultStudioPopularityFloor  = 50
	defaultDedupWindowDays        = 30
	defaultAnniversaryCrossWindow = 60
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// TMDB genre identifiers used by the default tables.
const (
	genreAction         = 28
	genreAdventure      = 12
	genreAnimation      = 16
	genreComedy         = 35
	genreDocumentary    = 99
	genreDrama          = 18
	genreFamily         = 10751
	genreFantasy        = 14
	genreHistory        = 36
	genreHorror         = 27
	genreMusic          = 10402
	genreMystery        = 9648
	genreRomance        = 10749
	genreScienceFiction = 878
	genreTVMovie        = 10770
	genreThriller       = 53
	genreWar            = 10752
	genreWestern        = 37

	genreTVActionAdventure = 10759
	genreTVSciFiFantasy    = 10765
	genreTVNews            = 10763
	genreTVReality         = 10764
	genreTVSoap            = 10766
	genreTVTalk            = 10767
)

func defaultApprovedGenres() []int {
	return []int{
		genreAction, genreAdventure, genreComedy, genreDrama, genreFantasy, genreHorror,
		genreMystery, genreRomance, genreScienceFiction, genreThriller, genreFamily, genreAnimation,
		genreTVActionAdventure, genreTVSciFiFantasy,
	}
}

func defaultRejectedGenres() []int {
	return []int{
		genreDocumentary, genreWestern, genreHistory, genreWar, genreMusic, genreTVMovie,
		genreTVNews, genreTVReality, genreTVSoap, genreTVTalk,
	}
}

func defaultHighDemandGenres() []int {
	return []int{
		genreAction, genreAnimation, genreScienceFiction, genreHorror, genreFantasy,
		genreTVActionAdventure, genreTVSciFiFantasy,
	}
}

func defaultMajorStudios() []string {
	return []string{
		"Walt Disney", "Disney", "Pixar", "Marvel Studios", "Lucasfilm", "Warner Bros",
		"DC Studios", "DC Films", "New Line", "Universal", "Illumination", "DreamWorks",
		"Paramount", "Columbia Pictures", "Sony Pictures", "20th Century", "Lionsgate",
		"Legendary", "Metro-Goldwyn-Mayer", "MGM", "Amblin", "A24", "Blumhouse",
		"HBO", "Netflix", "Amazon", "Prime Video", "Apple TV", "Hulu", "FX", "AMC",
		"Showtime", "Starz", "Peacock", "NBC", "CBS", "ABC", "FOX",
	}
}

func defaultTopTierStudios() []string {
	return []string{
		"Marvel Studios", "Lucasfilm", "Pixar", "Walt Disney Pictures", "Warner Bros. Pictures",
		"Universal Pictures",
	}
}

func defaultBlacklistedKeywords() []string {
	return []string{
		"documentary", "docuseries", "festival", "reality", "talent show", "talent competition",
		"dating show", "game show", "concert", "live performance", "fan-made", "fan made",
		"fan film", "parody", "behind the scenes", "making of", "stand-up special", "award show",
	}
}

func defaultRejectedShowTypes() []string {
	return []string{"Reality", "Talk Show", "News", "Documentary", "Miniseries"}
}

func defaultAnniversaryYears() []int {
	return []int{5, 10, 15, 20, 25, 30, 40, 50}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:                defaultTMDBBaseURL,
			Language:               defaultTMDBLanguage,
			Region:                 defaultTMDBRegion,
			TimeoutSeconds:         defaultTMDBTimeoutSeconds,
			RequestsPerSecond:      defaultTMDBRequestsPerSecond,
			Burst:                  defaultTMDBBurst,
			BreakerFailures:        defaultTMDBBreakerFailures,
			BreakerCooldownSeconds: defaultTMDBBreakerCooldown,
			TrendingPages:          defaultTMDBTrendingPages,
			UpcomingPages:          defaultTMDBUpcomingPages,
			AnniversaryYears:       defaultAnniversaryYears(),
			AnniversarySpreadDays:  defaultAnniversarySpreadDays,
		},
		Curation: Curation{
			MaxItems:              defaultMaxItems,
			EnrichLimit:           defaultEnrichLimit,
			EnrichWorkers:         defaultEnrichWorkers,
			MinVoteCount:          defaultMinVoteCount,
			StudioPopularityFloor: defaultStudioPopularityFloor,
			Popularity: Popularity{
				Today:       25,
				Weekly:      25,
				Monthly:     40,
				Anniversary: 25,
			},
		},
		Rules: Rules{
			ApprovedGenres:      defaultApprovedGenres(),
			RejectedGenres:      defaultRejectedGenres(),
			HighDemandGenres:    defaultHighDemandGenres(),
			MajorStudios:        defaultMajorStudios(),
			TopTierStudios:      defaultTopTierStudios(),
			BlacklistedKeywords: defaultBlacklistedKeywords(),
			RejectedShowTypes:   defaultRejectedShowTypes(),
		},
		Dedup: Dedup{
			WindowDays:                 defaultDedupWindowDays,
			AnniversaryCrossWindowDays: defaultAnniversaryCrossWindow,
		},
		Notifications: Notifications{
			RequestTimeout: 10,
			OnSelected:     true,
			OnEmpty:        true,
			OnError:        true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
