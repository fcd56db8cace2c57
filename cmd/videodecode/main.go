package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/rocvideodecode"
	"github.com/xaionaro-go/rocvideodecode/internal/cmdflags"
	"github.com/xaionaro-go/rocvideodecode/internal/session"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s -i <input> [options]\n", os.Args[0])
		pflag.PrintDefaults()
	}
	flags := cmdflags.Register()
	pflag.Parse()
	if flags.Input == "" && flags.Backend != rocvideodecode.BackendTypeSynthetic {
		pflag.Usage()
		os.Exit(1)
	}

	ctx, l := flags.Logger()
	defer belt.Flush(ctx)

	result, err := session.Run(ctx, flags.SessionConfig(0, flags.DeviceID, true))
	if err != nil {
		l.Fatal(err)
	}

	info := result.DeviceInfo
	fmt.Printf("info: Using GPU device %d - %s [%s] on PCI bus %02x:%02x.%x\n",
		info.DeviceID, info.DeviceName, info.GCNArchName, info.PCIBusID, info.PCIDeviceID, info.PCIDomainID)
	fmt.Printf("info: Total frames decoded: %s\n", humanize.Comma(int64(result.Frames)))
	fmt.Printf("info: Frames flushed on reconfiguration: %d\n", result.FlushedFrames)
	fmt.Printf("info: Session overhead: %s\n", result.Overhead)
	fmt.Printf("info: Average decoding rate: %.2f FPS\n", result.FPS())
	if result.MD5 != nil {
		fmt.Printf("MD5 message digest: %s\n", hex.EncodeToString(result.MD5))
	}
	if flags.OutputFile != "" {
		if st, err := os.Stat(flags.OutputFile); err == nil {
			fmt.Printf("info: Wrote %s to '%s'\n", humanize.Bytes(uint64(st.Size())), flags.OutputFile)
		}
	}
}
