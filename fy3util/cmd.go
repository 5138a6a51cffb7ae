/*
Copyright © 2024 the FY3-Reader authors.
This file is part of FY3-Reader.

FY3-Reader is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FY3-Reader is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FY3-Reader.  If not, see <http://www.gnu.org/licenses/>.
*/


// Package fy3util implements the fy3 command-line interface.
package fy3util

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	fy3reader "github.com/BigShuiTai/FY3-Reader"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// options are the configuration options available to the commands.
var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	granuleFlags := []*pflag.FlagSet{processCmd.Flags(), datasetsCmd.Flags(), infoCmd.Flags()}

	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "log-level",
			usage: `
              log-level is the minimum severity of log messages: one of
              debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "model",
			usage: `
              model is the instrument model of the granule, for example
              FY3D_MWRI_L1 or FY3G_PMR_L2.`,
			shorthand:  "m",
			defaultVal: "",
			flagsets:   granuleFlags,
		},
		{
			name: "dataset",
			usage: `
              dataset is the channel, variable or composite to process.`,
			shorthand:  "d",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
		{
			name: "level",
			usage: `
              level selects the geolocation level of granules whose
              coordinates have a level axis.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
		{
			name: "box",
			usage: `
              box is the crop region as "latmin,latmax,lonmin,lonmax".
              It takes precedence over region.`,
			shorthand:  "b",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
		{
			name: "region",
			usage: `
              region is the name of a crop region defined in the regions file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
		{
			name: "regions",
			usage: `
              regions is the path to a TOML file of named crop regions.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
		{
			name: "strict",
			usage: `
              strict rejects crops whose geolocation extends beyond the
              box by more than the tolerance.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
		{
			name: "tolerance",
			usage: `
              tolerance is the extent tolerance in degrees used when strict
              is set.`,
			defaultVal: fy3reader.DefaultExtentTolerance,
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
		{
			name: "resampler",
			usage: `
              resampler is the interpolation method: nearest, linear or bicubic.`,
			shorthand:  "r",
			defaultVal: "nearest",
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
		{
			name: "shape",
			usage: `
              shape is the output grid shape as rows,cols. Empty keeps the
              swath shape.`,
			defaultVal: []int{},
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
		{
			name: "projection",
			usage: `
              projection is the PROJ name used to place composite images.`,
			defaultVal: "eqc",
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
		{
			name: "central-meridian",
			usage: `
              central-meridian is the projection longitude of origin in degrees.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
		{
			name: "lat-true-scale",
			usage: `
              lat-true-scale is the latitude of true scale in degrees.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{processCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("FY3")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // The flag is shared with the first flagset.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	Root.AddCommand(versionCmd)
	Root.AddCommand(datasetsCmd)
	Root.AddCommand(infoCmd)
	Root.AddCommand(processCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and configures logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("fy3: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(Cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("fy3: %v", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "fy3",
	Short: "A reader for FengYun-3 passive-microwave granules.",
	Long: `fy3 reads brightness temperatures and precipitation radar variables
from FengYun-3 level 1 and level 2 granules, and crops, resamples and
composites them. Use the subcommands specified below to access the
functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'FY3_VAR' where 'VAR' is the
upper-case name of the variable with dashes replaced by underscores.
Granule paths may be local files, http(s) URLs, or s3://, gs:// or file://
blob URLs.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of fy3.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("FY3-Reader v%s\n", fy3reader.Version)
	},
	DisableAutoGenTag: true,
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets FILE",
	Short: "List the datasets of a granule.",
	Long: `datasets lists the native datasets of a granule with their exact
names, followed by the composites the model can build.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDataset(context.Background(), args[0], func(d *fy3reader.Dataset) error {
			for _, id := range d.AllAvailableDatasets() {
				name, err := d.ExactName(id)
				if err != nil {
					return err
				}
				cmd.Printf("%-24s %s\n", id, name)
			}
			for _, c := range d.Model().CompositeNames() {
				cmd.Printf("%-24s composite\n", c)
			}
			return nil
		})
	},
	DisableAutoGenTag: true,
}

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print granule metadata.",
	Long:  "info prints the platform, observing times and global attributes of a granule.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDataset(context.Background(), args[0], func(d *fy3reader.Dataset) error {
			cmd.Printf("platform: %s\n", d.PlatformName())
			if t, err := d.StartTime(); err == nil {
				cmd.Printf("start:    %s\n", t.Format("2006-01-02T15:04:05.000Z"))
			}
			if t, err := d.EndTime(); err == nil {
				cmd.Printf("end:      %s\n", t.Format("2006-01-02T15:04:05.000Z"))
			}
			attrs := d.Attrs()
			keys := attrs.Keys()
			sort.Strings(keys)
			for _, k := range keys {
				cmd.Printf("%s: %v\n", k, attrs[k])
			}
			return nil
		})
	},
	DisableAutoGenTag: true,
}

// processCmd runs the load, crop and resample pipeline.
var processCmd = &cobra.Command{
	Use:   "process FILE",
	Short: "Load, crop and resample a dataset.",
	Long: `process loads a channel, variable or composite from a granule, optionally
crops it to a box, resamples it onto a regular grid and prints a summary of
the result. Composites are evaluated on the resampled grid; image composites
are then projected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newProcessConfig(Cfg)
		if err != nil {
			return err
		}
		s, err := Process(context.Background(), args[0], p)
		if err != nil {
			return err
		}
		s.Print(cmd.OutOrStdout())
		return nil
	},
	DisableAutoGenTag: true,
}

// withDataset stages and opens the granule at path with the configured
// model and calls f with it.
func withDataset(ctx context.Context, path string, f func(*fy3reader.Dataset) error) error {
	model := Cfg.GetString("model")
	if model == "" {
		return fmt.Errorf("fy3: the model must be set; one of %s", strings.Join(fy3reader.ModelNames(), ", "))
	}
	d, cleanup, err := open(ctx, path, model)
	if err != nil {
		return err
	}
	defer cleanup()
	defer d.Close()
	return f(d)
}

func open(ctx context.Context, path, model string) (*fy3reader.Dataset, func(), error) {
	local, cleanup, err := maybeDownload(ctx, path)
	if err != nil {
		return nil, cleanup, err
	}
	d, err := fy3reader.Open(local, model)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return d, cleanup, nil
}
