package transcription

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"reelforge/internal/catalog"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// whisperXModel runs one catalog model through uvx whisperx.
type whisperXModel struct {
	model catalog.Model
	cfg   Config
	run   commandRunner
}

// NewWhisperXLoader returns a Loader that resolves catalog model keys and
// confirms uvx is installed before the first transcription.
func NewWhisperXLoader(cfg Config, run commandRunner) Loader {
	checkBinary := run == nil
	if run == nil {
		run = defaultCommandRunner
	}
	return func(_ context.Context, id string) (Model, error) {
		model, err := catalog.ModelByKey(id)
		if err != nil {
			return nil, err
		}
		if checkBinary {
			if _, err := exec.LookPath(UVXCommand); err != nil {
				return nil, fmt.Errorf("%s not found on PATH: %w", UVXCommand, err)
			}
		}
		return &whisperXModel{model: model, cfg: cfg, run: run}, nil
	}
}

func (m *whisperXModel) ID() string {
	return m.model.Key
}

// Transcribe runs whisperx and returns the raw JSON it wrote.
func (m *whisperXModel) Transcribe(ctx context.Context, wavPath, outputDir, language string) ([]byte, error) {
	if err := m.run(ctx, UVXCommand, m.buildArgs(wavPath, outputDir, language)...); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))
	data, err := os.ReadFile(filepath.Join(outputDir, base+".json"))
	if err != nil {
		return nil, fmt.Errorf("read whisperx output: %w", err)
	}
	return data, nil
}

func (m *whisperXModel) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 32)
	if m.cfg.CUDAEnabled {
		args = append(args, "--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}
	args = append(args,
		"whisperx",
		source,
		"--model", m.model.Engine,
		"--batch_size", BatchSize,
		"--chunk_size", ChunkSize,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
	)

	vadMethod := m.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && m.cfg.HFToken != "" {
		args = append(args, "--hf_token", m.cfg.HFToken)
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	if m.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

func extractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	// Torch 2.6 defaults torch.load to weights_only, which pyannote checkpoints reject.
	if name == UVXCommand && os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
