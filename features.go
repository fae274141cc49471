package edid

// ColorGamut is a canonical colour gamut name.
type ColorGamut string

const (
	GamutSRGB      ColorGamut = "srgb"
	GamutDisplayP3 ColorGamut = "display_p3"
	GamutAdobeRGB  ColorGamut = "adobe_rgb"
	GamutRec2020   ColorGamut = "rec_2020"
)

// canonicalGamutOrder fixes the order of the reported gamut list regardless
// of the order signals were encountered in.
var canonicalGamutOrder = [4]ColorGamut{GamutSRGB, GamutDisplayP3, GamutAdobeRGB, GamutRec2020}

// gamutPrimaries holds the CIE xy coordinates of the red, green and blue
// primaries of each canonical gamut.
var gamutPrimaries = map[ColorGamut][6]float64{
	GamutSRGB:      {0.640, 0.330, 0.300, 0.600, 0.150, 0.060},
	GamutDisplayP3: {0.680, 0.320, 0.265, 0.690, 0.150, 0.060},
	GamutAdobeRGB:  {0.640, 0.330, 0.210, 0.710, 0.150, 0.060},
	GamutRec2020:   {0.708, 0.292, 0.170, 0.797, 0.131, 0.046},
}

// FeatureSupport is the reconciled capability summary, recomputed in full
// from the decoded blocks on every decode.
type FeatureSupport struct {
	ColorGamuts []ColorGamut

	// 8 unless a deep-color signal raises it to 10, 12 or 16
	MaxInputSignalBitDepth int

	SupportsHDR10       bool
	SupportsHDR10Plus   bool
	SupportsDolbyVision bool

	SupportsVRR bool
	// 0 when no VRR range was found anywhere
	MinVRRHz int
	MaxVRRHz int

	// static refresh-rate range, widened to include any VRR range found
	MinRefreshRateHz int
	MaxRefreshRateHz int

	SupportsALLM bool

	// best-effort versions, monotone max over every signal; 0 = unknown
	HDMIVersion      float64
	DisplayIDVersion float64

	// EDIDVersion is the "{major}.{minor}" pair as a float. Lossy for
	// minor >= 10 (1.19 sorts below 1.2); BaseBlock has the raw pair.
	EDIDVersion float64
}

// aggregateFeatures walks the base block and every extension once and
// reconciles the overlapping capability signals.
func aggregateFeatures(base *BaseBlock, params BasicDisplayParams, native *NativeResolution, extensions []Extension) FeatureSupport {
	agg := &featureAccumulator{bitDepth: 8}

	agg.addGamut(GamutSRGB, params.StandardSRGB)
	inferred := nearestGamut(base.Chromaticity)
	agg.addGamut(inferred, true)
	agg.addGamut(GamutSRGB, true) // a wide-gamut display still covers sRGB

	if native != nil {
		agg.addRefreshRate(native.RefreshRateHz)
	}
	for _, mode := range base.StandardModes {
		agg.addRefreshRate(mode.VertFreqHz)
	}
	agg.addTimings(base.Timings)

	for _, ext := range extensions {
		switch e := ext.(type) {
		case *CTAExtension:
			agg.addTimings(e.Timings)
			for _, block := range e.DataBlocks {
				agg.addDataBlock(block)
			}
		case *DisplayIDExtension:
			agg.raiseDisplayIDVersion(e.Version)
		}
	}

	return agg.finish(base)
}

type featureAccumulator struct {
	gamuts map[ColorGamut]bool

	bitDepth int

	hdr10, hdr10Plus, dolbyVision bool

	vrr              bool
	vrrMin, vrrMax   int
	srrMin, srrMax   int
	allm             bool
	hdmiVersion      float64
	displayIDVersion float64
}

func (a *featureAccumulator) addGamut(g ColorGamut, present bool) {
	if !present || g == "" {
		return
	}
	if a.gamuts == nil {
		a.gamuts = make(map[ColorGamut]bool)
	}
	a.gamuts[g] = true
}

func (a *featureAccumulator) addRefreshRate(hz int) {
	if hz <= 0 {
		return
	}
	if a.srrMin == 0 || hz < a.srrMin {
		a.srrMin = hz
	}
	if hz > a.srrMax {
		a.srrMax = hz
	}
}

func (a *featureAccumulator) addTimings(timings []DetailedTiming) {
	for i := range timings {
		if hz, ok := timings[i].RefreshRateHz(); ok {
			a.addRefreshRate(hz)
		}
	}
}

func (a *featureAccumulator) raiseBitDepth(depth int) {
	if depth > a.bitDepth {
		a.bitDepth = depth
	}
}

func (a *featureAccumulator) raiseHDMIVersion(v float64) {
	if v > a.hdmiVersion {
		a.hdmiVersion = v
	}
}

func (a *featureAccumulator) raiseDisplayIDVersion(v float64) {
	if v > a.displayIDVersion {
		a.displayIDVersion = v
	}
}

func (a *featureAccumulator) addVRRRange(minHz, maxHz int) {
	if minHz <= 0 && maxHz <= 0 {
		return
	}
	a.vrr = true
	if minHz > 0 && (a.vrrMin == 0 || minHz < a.vrrMin) {
		a.vrrMin = minHz
	}
	if maxHz > a.vrrMax {
		a.vrrMax = maxHz
	}
}

func (a *featureAccumulator) addDataBlock(block DataBlock) {
	switch b := block.(type) {
	case *HDMI14DataBlock:
		a.raiseHDMIVersion(1.4)
		if b.DeepColor30 {
			a.raiseBitDepth(10)
		}
		if b.DeepColor36 {
			a.raiseBitDepth(12)
		}
		if b.DeepColor48 {
			a.raiseBitDepth(16)
		}
		if b.ContentTypeGame {
			a.allm = true
		}

	case *HDMI20DataBlock:
		a.raiseHDMIVersion(2.0)
		a.addY420DeepColor(b.DeepColor30Y420, b.DeepColor36Y420, b.DeepColor48Y420)

	case *HDMIForumDataBlock:
		a.addForumFeatures(&b.Features)

	case *HDMIForumSCDB:
		a.addForumFeatures(&b.Features)

	case *DolbyVisionDataBlock:
		a.dolbyVision = true

	case *VendorSpecificVideoDataBlock:
		if b.SupportsHDR10Plus {
			a.hdr10Plus = true
		}
		if b.SupportsDolbyVision {
			a.dolbyVision = true
		}

	case *HDRStaticMetadataDataBlock:
		if b.SupportsHDR10() {
			a.hdr10 = true
		}

	case *ColorimetryDataBlock:
		a.addGamut(GamutAdobeRGB, b.AdobeRGB)
		a.addGamut(GamutRec2020, b.BT2020RGB || b.BT2020YCC || b.BT2020cYCC)

	case *VideoCapabilityDataBlock:
		if b.VRR {
			a.vrr = true
		}
		// 2.1-only features signalled without a forum vendor block
		if b.QMS || b.CinemaVRR || b.NegativeMRR || b.FVA || b.ALLM {
			a.raiseHDMIVersion(2.1)
		}
	}
}

func (a *featureAccumulator) addForumFeatures(f *HDMIForumFeatures) {
	a.raiseHDMIVersion(2.0)
	if f.Version != 0 || f.AnyFeatureFlag() || f.MaxFRLRateCode != 0 {
		a.raiseHDMIVersion(2.1)
	}
	a.addY420DeepColor(f.DeepColor30Y420, f.DeepColor36Y420, f.DeepColor48Y420)
	if f.DSC10bpc {
		a.raiseBitDepth(10)
	}
	if f.DSC12bpc {
		a.raiseBitDepth(12)
	}
	if f.DSC16bpc {
		a.raiseBitDepth(16)
	}
	if f.ALLM {
		a.allm = true
	}
	a.addVRRRange(f.VRRMinHz, f.VRRMaxHz)
}

func (a *featureAccumulator) addY420DeepColor(dc30, dc36, dc48 bool) {
	if dc30 {
		a.raiseBitDepth(10)
	}
	if dc36 {
		a.raiseBitDepth(12)
	}
	if dc48 {
		a.raiseBitDepth(16)
	}
}

func (a *featureAccumulator) finish(base *BaseBlock) FeatureSupport {
	fs := FeatureSupport{
		MaxInputSignalBitDepth: a.bitDepth,
		SupportsHDR10:          a.hdr10,
		SupportsHDR10Plus:      a.hdr10Plus,
		SupportsDolbyVision:    a.dolbyVision,
		SupportsVRR:            a.vrr,
		MinVRRHz:               a.vrrMin,
		MaxVRRHz:               a.vrrMax,
		MinRefreshRateHz:       a.srrMin,
		MaxRefreshRateHz:       a.srrMax,
		SupportsALLM:           a.allm,
		HDMIVersion:            a.hdmiVersion,
		DisplayIDVersion:       a.displayIDVersion,
		EDIDVersion:            versionFloat(base.Version, base.Revision),
	}

	// VRR bounds fold into the reported static range
	if a.vrrMin > 0 && (fs.MinRefreshRateHz == 0 || a.vrrMin < fs.MinRefreshRateHz) {
		fs.MinRefreshRateHz = a.vrrMin
	}
	if a.vrrMax > fs.MaxRefreshRateHz {
		fs.MaxRefreshRateHz = a.vrrMax
	}

	for _, g := range canonicalGamutOrder {
		if a.gamuts[g] {
			fs.ColorGamuts = append(fs.ColorGamuts, g)
		}
	}
	return fs
}

// nearestGamut matches the decoded primaries against the canonical gamut
// tables by summed squared distance over the six coordinates.
func nearestGamut(c Chromaticity) ColorGamut {
	actual := [6]float64{c.RedX, c.RedY, c.GreenX, c.GreenY, c.BlueX, c.BlueY}
	best := ColorGamut("")
	bestDist := 0.0
	for _, g := range canonicalGamutOrder {
		ref := gamutPrimaries[g]
		dist := 0.0
		for i := range ref {
			d := actual[i] - ref[i]
			dist += d * d
		}
		if best == "" || dist < bestDist {
			best = g
			bestDist = dist
		}
	}
	return best
}
