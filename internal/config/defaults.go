package config

const (
	defaultConfigPath          = "~/.config/reelforge/config.toml"
	defaultWorkDir             = "~/.local/share/reelforge/work"
	defaultLogDir              = "~/.local/share/reelforge/logs"
	defaultFontsDir            = "~/.local/share/reelforge/fonts"
	defaultDatabasePath        = "~/.local/share/reelforge/reelforge.db"
	defaultStorageDir          = "~/.local/share/reelforge/storage"
	defaultWidth               = 1080
	defaultHeight              = 1920
	defaultFPS                 = 24
	defaultVideoCodec          = "libx264"
	defaultAudioCodec          = "aac"
	defaultCaptionHoldSeconds  = 1.0
	defaultFont                = "Lato-Regular.ttf"
	defaultFontSize            = 100
	defaultFontColor           = "white"
	defaultStrokeColor         = "black"
	defaultStrokeWidth         = 4
	defaultAlign               = "center"
	defaultVerticalAlign       = "bottom"
	defaultMargin              = 400
	defaultMusicVolume         = 0.2
	defaultTranscriptionModel  = "base"
	defaultTranscriptionLang   = "en"
	defaultVADMethod           = "silero"
	defaultRenderWorkers       = 2
	defaultRenderTimeout       = 900
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	StorageBackendLocal        = "local"
	StorageBackendGCS          = "gcs"
	defaultStorageBackend      = StorageBackendLocal
	defaultGCSPublicBaseURLFmt = "https://storage.googleapis.com/%s"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:      defaultWorkDir,
			LogDir:       defaultLogDir,
			FontsDir:     defaultFontsDir,
			DatabasePath: defaultDatabasePath,
		},
		Render: Render{
			Width:              defaultWidth,
			Height:             defaultHeight,
			FPS:                defaultFPS,
			VideoCodec:         defaultVideoCodec,
			AudioCodec:         defaultAudioCodec,
			CaptionHoldSeconds: defaultCaptionHoldSeconds,
		},
		Captions: Captions{
			Font:            defaultFont,
			FontSize:        defaultFontSize,
			FontColor:       defaultFontColor,
			StrokeColor:     defaultStrokeColor,
			StrokeWidth:     defaultStrokeWidth,
			TextAlign:       defaultAlign,
			HorizontalAlign: defaultAlign,
			VerticalAlign:   defaultVerticalAlign,
			Margin:          defaultMargin,
		},
		Music: Music{
			DefaultVolume: defaultMusicVolume,
		},
		Transcription: Transcription{
			Model:     defaultTranscriptionModel,
			Language:  defaultTranscriptionLang,
			VADMethod: defaultVADMethod,
		},
		Storage: Storage{
			Backend:  defaultStorageBackend,
			LocalDir: defaultStorageDir,
		},
		Workflow: Workflow{
			RenderWorkers:        defaultRenderWorkers,
			RenderTimeoutSeconds: defaultRenderTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
