package device

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const probeTimeout = 5 * time.Second

// Detect builds the accelerator pool. A non-empty list such as
// "cuda:0,cuda:1" or "cuda:0=24576,cuda:1=24576" (id=memoryMB) wins over
// probing; otherwise nvidia-smi is queried. An empty result is valid and
// leaves the pool cpu-only.
func Detect(list string) []Info {
	if strings.TrimSpace(list) != "" {
		return parseList(list)
	}
	return probeNvidia()
}

func parseList(list string) []Info {
	var infos []Info
	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || tok == ClassCPU {
			continue
		}
		mem := 0
		if i := strings.IndexByte(tok, '='); i >= 0 {
			if v, err := strconv.Atoi(strings.TrimSpace(tok[i+1:])); err == nil {
				mem = v
			}
			tok = strings.TrimSpace(tok[:i])
		}
		infos = append(infos, Info{ID: tok, Class: ClassGPU, MemoryMB: mem})
	}
	return infos
}

func probeNvidia() []Info {
	path, err := exec.LookPath("nvidia-smi")
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path,
		"--query-gpu=index,memory.total", "--format=csv,noheader,nounits").Output()
	if err != nil {
		log.Debug().Err(err).Msg("device: nvidia-smi probe failed")
		return nil
	}
	var infos []Info
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			continue
		}
		idx, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		mem, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			continue
		}
		infos = append(infos, Info{ID: fmt.Sprintf("cuda:%d", idx), Class: ClassGPU, MemoryMB: mem})
	}
	return infos
}
