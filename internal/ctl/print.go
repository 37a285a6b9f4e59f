package ctl

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"thalamusd/pkg/types"
)

func printStatus(w io.Writer, st types.StatusResponse) {
	fmt.Fprintf(w, "uptime: %s\n\n", time.Duration(st.UptimeSeconds)*time.Second)
	printModels(w, st.Models)

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEVICE\tCLASS\tMEMORY\tIN USE")
	for _, d := range st.Devices {
		mem := "-"
		if d.MemoryMB > 0 {
			mem = fmt.Sprintf("%d MB", d.MemoryMB)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Class, mem, yesNo(d.InUse))
	}
	tw.Flush()

	fmt.Fprintln(w)
	printCache(w, st.Cache)
}

func printModels(w io.Writer, models []types.ModelInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tVERSION\tLOADED\tDEVICE\tCRITICAL")
	for _, m := range models {
		dev := m.Device
		if dev == "" {
			dev = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Version, yesNo(m.Loaded), dev, yesNo(m.Critical))
	}
	tw.Flush()
}

func printCache(w io.Writer, info types.CacheInfo) {
	fmt.Fprintf(w, "cache: %s / %s in %d files\n",
		bytesStr(info.CurrentBytes), bytesStr(info.MaxBytes), info.Files)
	fmt.Fprintf(w, "cache: %d hits, %d misses (%.0f%% hit rate), evicted %d files (%s)\n",
		info.Hits, info.Misses, info.HitRate*100, info.EvictedFiles, bytesStr(info.EvictedBytes))
}

func bytesStr(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
