// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.12.14
//

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "github.com/mkhts/goclk"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// Main application processing
func runApplication(args cmdOpt) error {

	// Load input files
	obs, nav, err := loadInputFiles(args)
	if err != nil {
		return fmt.Errorf("failed to load input files: %w", err)
	}

	if m.DBG_ >= 1 {
		m.PrintA("--- obs data (%s)---\n", filepath.Base(args.obsFn))
		fmt.Println(obs)
	}
	if m.DBG_ >= 2 {
		m.PrintA("--- nav data (%s)---\n", filepath.Base(args.navFn))
		fmt.Println(nav)
	}

	// Rearrange the decoded epochs into session grids
	ses := m.NewSession(obs, nav, 0)

	// Repair the receiver clock and correct the observations
	clkOpt := setClkOpt(&args)
	rslt := m.FixReceiverClock(ses, nav, clkOpt)

	// Prepare output file
	out, err := prepareOutput(args.outFn)
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}
	defer closeOutput(out)

	// Print clock report
	if !args.noHeader {
		printClkHeader(out, os.Args[0], args.obsFn, args.navFn, ses, rslt)
	}
	printClk(out, ses, rslt)

	// Dump corrected observations if requested
	if len(args.corrFn) > 0 {
		corr, err := prepareOutput(args.corrFn)
		if err != nil {
			return fmt.Errorf("failed to prepare corrected obs output: %w", err)
		}
		defer closeOutput(corr)
		printCorrectedObs(corr, ses, rslt)
	}

	return nil
}

// Load input files
func loadInputFiles(args cmdOpt) (*m.Obs, *m.Nav, error) {

	obs, err := readObs(args.obsFn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read observation file: %w", err)
	}

	nav, err := readNav(args.navFn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read navigation file: %w", err)
	}

	return obs, nav, nil
}

// Prepare output file
func prepareOutput(fn string) (io.WriteCloser, error) {

	// Use stdout if no output file is specified
	if len(fn) == 0 {
		return &nopCloser{os.Stdout}, nil
	}

	// Create output file
	f, err := os.Create(fn)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// Close output file
func closeOutput(w io.WriteCloser) {
	if w != nil {
		w.Close()
	}
}

// nopCloser - WriteCloser that ignores close operations
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Structure to hold command line argument information
type cmdOpt struct {
	obsFn     string
	navFn     string
	outFn     string
	corrFn    string
	noHeader  bool
	sys       m.SysVar
	exSats    m.SatVar
	cnMask    float64
	elMask    float64
	wghMode   int
	noChiTest bool
	maxDop    float64
	maxRes    float64
	approxPos m.PosLLH
	hasApprox bool
}

// Parse command line arguments
func parseArgs() (a cmdOpt, err error) {
	flag.Usage = func() {
		m.PrintA(`
[Usage]
	%s [Options] rover.obs nav_file.nav

[Options]
`, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	sOpt := m.NewSppOpt()
	flag.Var(&a.sys, "sys", "Satellite systems to use for calculation. G(GPS), J(QZSS), E(Galileo), R(Glonass), C(Beidou). Comma-separated without spaces. Default: G,J,E,R,C")
	flag.Var(&a.exSats, "ex", "List of satellites to exclude. Comma-separated satellite names without spaces like C02,E14.")
	flag.Float64Var(&a.cnMask, "cn", sOpt.CnMask, "Signal strength mask [dB]. Set to 0 for no mask.")
	flag.Float64Var(&a.elMask, "m", sOpt.ElMask, "Elevation mask [deg]. Set to 0 for no mask.")
	flag.IntVar(&a.wghMode, "w", sOpt.WghMode, "Weighting method for SPP calculation. 0(no weighting),1(RTKLIB method),2(RTK core method),3(GPS practical programming book method)")
	flag.Float64Var(&a.maxDop, "d", sOpt.MaxDop, "Treat the epoch as unsolved when GDOP exceeds this value. Set to 0 to always accept regardless of GDOP.")
	flag.BoolVar(&a.noChiTest, "nx2", sOpt.NoChiTest, "Specify to not perform solution evaluation (exclusion) by chi-square test. Default is to perform.")
	flag.Float64Var(&a.maxRes, "mr", sOpt.MaxRes, "Threshold residual for excluding satellite with maximum residual in SPP calculation. Set to 0 to not exclude. Default is no exclusion.")
	flag.Var(&a.approxPos, "l", "Approximate receiver latitude/longitude/ellipsoidal height. Enclose in quotes like -l \"35.73101206 139.7396917 80.33\"")
	flag.StringVar(&a.outFn, "o", "", "Output clock report file path. If not specified, output to stdout.")
	flag.StringVar(&a.corrFn, "c", "", "Output corrected observation file path. If not specified, corrected observations are not dumped.")
	flag.BoolVar(&a.noHeader, "nh", false, "Do not output header section of the clock report.")
	var dbg int
	flag.IntVar(&dbg, "x", 0, "Debug information display. Specify level value. 0(OFF), 1(display), 2(detailed display), 3(more detailed), 4(most detailed)")
	flag.Parse()
	if flag.NArg() != 2 {
		return a, fmt.Errorf("too less or many arguments")
	}
	a.obsFn = flag.Arg(0)
	a.navFn = flag.Arg(1)
	a.hasApprox = a.approxPos.Lat != 0
	m.DBG_ = dbg
	return
}

// Read observation file
func readObs(fn string) (*m.Obs, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	obs, err := m.ReadObs(f)
	if err != nil {
		return nil, err
	}
	return obs, nil
}

// Read navigation file
func readNav(fn string) (*m.Nav, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	nav, err := m.ReadNav(f)
	if err != nil {
		return nil, err
	}
	return nav, nil
}

func setClkOpt(args *cmdOpt) *m.ClkOpt {
	opt := m.NewClkOpt()
	opt.Spp.Sys = args.sys
	opt.Spp.ExSats = args.exSats
	opt.Spp.CnMask = args.cnMask
	opt.Spp.ElMask = args.elMask
	opt.Spp.WghMode = args.wghMode
	opt.Spp.NoChiTest = args.noChiTest
	opt.Spp.MaxDop = args.maxDop
	opt.Spp.MaxRes = args.maxRes
	if args.hasApprox {
		xyz := args.approxPos.ToXYZ()
		opt.Spp.ApproxPos = &xyz
	}
	return opt
}

// Print clock report header
func printClkHeader(out io.Writer, cmd, obsFn, navFn string, ses *m.Session, rslt *m.Result) {
	fmt.Fprintf(out, "%% program   : %s\n", filepath.Base(cmd))
	fmt.Fprintf(out, "%% inp file  : %s\n", obsFn)
	fmt.Fprintf(out, "%% inp file  : %s\n", navFn)
	if ne := ses.NumEpoch(); ne > 0 {
		fmt.Fprintf(out, "%% obs start : %s\n", gtimeStr(ses.GTimeAt(0)))
		fmt.Fprintf(out, "%% obs end   : %s\n", gtimeStr(ses.GTimeAt(ne-1)))
	}
	fmt.Fprintf(out, "%% jumps     : pr1=%v pr2=%v cp1=%v cp2=%v\n", rslt.Jumps.Pr1, rslt.Jumps.Pr2, rslt.Jumps.Cp1, rslt.Jumps.Cp2)
	bad := []string{}
	for s, flagged := range rslt.Bad {
		if flagged && ses.Sats[s] != "" {
			bad = append(bad, string(ses.Sats[s]))
		}
	}
	fmt.Fprintf(out, "%% bad sats  : %v\n", bad)
	fmt.Fprintf(out, "%%  GPST                      clk_err(s)    clk_drift(s/s)\n")
}

// Print per-epoch clock error and drift
func printClk(out io.Writer, ses *m.Session, rslt *m.Result) {
	for i := 0; i < ses.NumEpoch(); i++ {
		drift := 0.0
		if i < len(rslt.DtRdot) {
			drift = rslt.DtRdot[i]
		}
		fmt.Fprintf(out, "%s %17.9e %17.9e\n", gtimeStr(ses.GTimeAt(i)), rslt.DtR[i], drift)
	}
}

// Dump the corrected observation grids, one line per satellite per epoch
func printCorrectedObs(out io.Writer, ses *m.Session, rslt *m.Result) {
	fmt.Fprintf(out, "%%  GPST                   sat bad            pr1(m)          cp1(cyc)            pr2(m)          cp2(cyc)\n")
	for i := 0; i < ses.NumEpoch(); i++ {
		ts := gtimeStr(ses.GTimeAt(i))
		for s, sat := range ses.Sats {
			if sat == "" || !ses.Pr1.Has(s, i) {
				continue
			}
			fmt.Fprintf(out, "%s %s %3v %17.4f %17.4f %17.4f %17.4f\n",
				ts, sat, rslt.Bad[s],
				ses.Pr1.At(s, i), gridVal(ses.Cp1, s, i), gridVal(ses.Pr2, s, i), gridVal(ses.Cp2, s, i))
		}
	}
}

func gridVal(g *m.ObsGrid, s, i int) float64 {
	if g.Has(s, i) {
		return g.At(s, i)
	}
	return 0
}

func gtimeStr(t m.GTime) string {
	return t.ToTime().UTC().Format("2006/01/02 15:04:05.000")
}
