package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"
)

// Get the default number of render workers: one per logical CPU.
func defaultWorkers() int {
	count, err := cpu.Counts(true)
	if err != nil || count < 1 {
		return runtime.NumCPU()
	}
	return count
}

// Describe the host CPU for log output.
func cpuModel() string {
	info, err := cpu.Info()
	if err != nil || len(info) == 0 {
		return runtime.GOARCH
	}
	return fmt.Sprintf("%s @ %.2f GHz", info[0].ModelName, info[0].Mhz/1000)
}

// List the compute resources available to the renderer.
func ListDevices(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	info, err := cpu.Info()
	if err != nil {
		return err
	}
	physical, err := cpu.Counts(false)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"CPU", "Model", "Cores", "Speed"})
	for idx, stat := range info {
		table.Append([]string{
			fmt.Sprintf("%02d", idx),
			stat.ModelName,
			fmt.Sprintf("%d", stat.Cores),
			fmt.Sprintf("%3.1f MHz", stat.Mhz),
		})
	}
	table.SetFooter([]string{"", "Workers", fmt.Sprintf("%d", defaultWorkers()), fmt.Sprintf("%d physical", physical)})
	table.Render()

	if vm, err := mem.VirtualMemory(); err == nil {
		buf.WriteString(fmt.Sprintf("Memory: %d MiB total, %d MiB available\n", vm.Total>>20, vm.Available>>20))
	}

	logger.Noticef("system information\n%s", buf.String())
	return nil
}
