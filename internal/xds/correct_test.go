// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xds

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/xtaltools/pkg/types"
)

const sampleCorrect = ` ***** CORRECT *****
 X-RAY_WAVELENGTH=  0.97950
 SPACE_GROUP_NUMBER=   19
 UNIT_CELL_CONSTANTS=    51.20    62.35    78.90  90.000  90.000  90.000
 INCLUDE_RESOLUTION_RANGE=  48.50   1.80

 SUBSET OF INTENSITY DATA WITH SIGNAL/NOISE >= -3.0 AS FUNCTION OF RESOLUTION
 RESOLUTION     NUMBER OF REFLECTIONS    COMPLETENESS R-FACTOR  R-FACTOR COMPARED I/SIGMA   R-meas  CC(1/2)  Anomal  SigAno   Nano
     2.00       10000    2000      2010       99.5%       5.0%      5.2%     9990   20.00      5.5%    99.7*     3    0.800     900
    total       99999    9999     10000       99.9%       1.0%      1.0%    99990   99.00      1.0%    99.9*     5    0.790    9000

 WILSON LINE (using all data) : A=  -1.234 B=  23.45 CORRELATION=  0.99

 STATISTICS OF SAVED DATA SET "XDS_ASCII.HKL" (DATA_RANGE=       1    3600)

 SUBSET OF INTENSITY DATA WITH SIGNAL/NOISE >= -3.0 AS FUNCTION OF RESOLUTION
 RESOLUTION     NUMBER OF REFLECTIONS    COMPLETENESS R-FACTOR  R-FACTOR COMPARED I/SIGMA   R-meas  CC(1/2)  Anomal  SigAno   Nano
   LIMIT     OBSERVED  UNIQUE  POSSIBLE     OF DATA   observed  expected                                      Corr

     5.69       12345    1820      1830       99.5%       3.1%      3.4%    12300   45.12      3.4%    99.9*    12    0.812     800
     1.90       18000    4000      4050       98.8%      60.2%     62.0%    17900    2.61     71.3%    72.4*     2    0.701    2100
     1.80       20000    5000      5100       98.0%      85.2%     90.1%    19900    1.52     96.3%    55.3      2    0.701    2500
    total      300000   60000     60500       99.2%       7.9%      8.3%   299500   15.23      8.5%    99.8*     5    0.790   30000
`

func TestParseCorrect(t *testing.T) {
	dc, err := ParseCorrect(strings.NewReader(sampleCorrect))
	require.NoError(t, err)

	assert.Equal(t, 0.9795, dc.Wavelength)
	assert.Equal(t, 19, dc.SpaceGroup)
	assert.Equal(t, types.UnitCell{A: 51.2, B: 62.35, C: 78.9, Alpha: 90, Beta: 90, Gamma: 90}, dc.Cell)
	assert.Equal(t, types.ResolutionRange{Low: 48.5, High: 1.8}, dc.Resolution)
	assert.Equal(t, types.ResolutionRange{Low: 1.9, High: 1.8}, dc.HighShell)
	assert.Equal(t, 23.45, dc.WilsonBFactor)

	assert.InDelta(t, 5.0, dc.Redundancy.Total, 1e-9)
	assert.InDelta(t, 4.0, dc.Redundancy.High, 1e-9)
	assert.Equal(t, types.ShellPair{Total: 99.2, High: 98.0}, dc.Completeness)
	assert.Equal(t, types.ShellPair{Total: 15.23, High: 1.52}, dc.MeanIOverSigma)
	assert.Equal(t, types.ShellPair{Total: 8.5, High: 96.3}, dc.Rmeas)
	assert.Equal(t, types.ShellPair{Total: 99.8, High: 55.3}, dc.CCHalf)
}

func TestParseCorrect_NoTable(t *testing.T) {
	_, err := ParseCorrect(strings.NewReader(" X-RAY_WAVELENGTH=  0.97950\n"))
	assert.ErrorContains(t, err, "no resolution shell table")
}

func TestParseCorrect_BadNumber(t *testing.T) {
	_, err := ParseCorrect(strings.NewReader(" SPACE_GROUP_NUMBER=  P212121\n"))
	assert.Error(t, err)
}

func TestReadCorrect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CORRECT.LP")
	require.NoError(t, os.WriteFile(path, []byte(sampleCorrect), 0o644))

	dc, err := ReadCorrect(path)
	require.NoError(t, err)
	assert.Equal(t, 19, dc.SpaceGroup)

	_, err = ReadCorrect(filepath.Join(t.TempDir(), "missing.LP"))
	assert.Error(t, err)
}
