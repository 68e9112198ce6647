package project

import (
	"reflect"
	"testing"

	"github.com/OpenAEC-Foundation/Open-FEM2D-Studio-sub005/model"
	"github.com/stretchr/testify/assert"
)

func Test_decodeRejectsUnsupportedVersion(tst *testing.T) {
	data := []byte(`{"version":"0.9.0","projectInfo":{"name":"x"},"mesh":{}}`)
	_, _, err := Decode(data)
	assert.Error(tst, err)
}

func Test_decodeRejectsInvalidJSON(tst *testing.T) {
	_, _, err := Decode([]byte("not json"))
	assert.Error(tst, err)
}

// Test_decodeDispatchesToLoadVersion1 checks the version-dispatch seam: a
// document declaring the current version is routed to LoadVersion1, so a
// future LoadVersion2 would slot in beside it rather than branching inside
// Decode.
func Test_decodeDispatchesToLoadVersion1(tst *testing.T) {
	registered := reflect.ValueOf(versionLoaders[SupportedVersion]).Pointer()
	direct := reflect.ValueOf(LoadVersion1).Pointer()
	assert.Equal(tst, direct, registered)
}

func buildRoundTripModel() *model.Model {
	m := model.NewModel()
	n1 := m.AddNode(0, 0, false)
	n2 := m.AddNode(4, 0, false)
	n1.Constraints = model.NodeConstraints{X: true, Y: true, Rotation: true}
	n2.Loads = model.NodeLoads{Fy: -1000}

	mat, _ := m.AddMaterial(210e9, 0.3, 7850, 1.2e-5)
	sec := model.BeamSection{A: 1e-2, I: 1e-4, H: 0.3, B: 0.15, ShapeType: "IPE"}
	b, _ := m.AddBeam(n1.Id, n2.Id, mat.Id, sec)
	b.DistributedLoad = &model.DistributedLoadSpec{QyStart: -500, QyEnd: -500, StartT: 0, EndT: 1}
	b.PointLoads = append(b.PointLoads, model.PointLoadOnBeam{T: 0.5, Fy: -200})
	b.EndReleases = &model.EndReleases{EndMoment: true}
	b.ThermalLoad = &model.ThermalLoad{DeltaT: 10}

	dead := m.AddLoadCase(&model.LoadCase{
		Name:       "dead",
		Type:       model.LoadCaseType("dead"),
		PointLoads: []model.NodePointLoadEntry{{NodeId: n2.Id, Fy: -1000}},
	})
	live := m.AddLoadCase(&model.LoadCase{
		Name:       "live",
		Type:       model.LoadCaseType("live"),
		PointLoads: []model.NodePointLoadEntry{{NodeId: n2.Id, Fy: -2000}},
	})
	_, _ = m.AddCombination(&model.LoadCombination{
		Name:    "ULS",
		Type:    model.CombinationType("linear"),
		Factors: map[int]float64{dead.Id: 1.35, live.Id: 1.5},
	})
	return m
}

// Test_encodeDecodeRoundTrip checks that a model survives an Encode/Decode
// round trip with the same entity ids, field values and combination factors.
func Test_encodeDecodeRoundTrip(tst *testing.T) {
	orig := buildRoundTripModel()

	data, err := Encode(orig, ProjectInfo{Name: "demo", Units: "SI"})
	assert.NoError(tst, err)

	restored, combos, err := Decode(data)
	assert.NoError(tst, err)

	assert.Equal(tst, len(orig.Nodes()), len(restored.Nodes()))
	assert.Equal(tst, len(orig.Beams()), len(restored.Beams()))
	assert.Equal(tst, len(orig.LoadCases()), len(restored.LoadCases()))
	assert.Len(tst, combos, len(orig.Combinations()))

	origBeam := orig.Beams()[0]
	var restoredBeam *model.BeamElement
	for _, b := range restored.Beams() {
		if b.Id == origBeam.Id {
			restoredBeam = b
		}
	}
	assert.NotNil(tst, restoredBeam)
	assert.Equal(tst, origBeam.NodeIds, restoredBeam.NodeIds)
	assert.Equal(tst, origBeam.MaterialId, restoredBeam.MaterialId)
	assert.InDelta(tst, origBeam.Section.A, restoredBeam.Section.A, 1e-12)
	assert.InDelta(tst, origBeam.Section.I, restoredBeam.Section.I, 1e-12)
	assert.NotNil(tst, restoredBeam.DistributedLoad)
	assert.InDelta(tst, -500.0, restoredBeam.DistributedLoad.QyStart, 1e-9)
	assert.Len(tst, restoredBeam.PointLoads, 1)
	assert.InDelta(tst, 0.5, restoredBeam.PointLoads[0].T, 1e-9)
	assert.NotNil(tst, restoredBeam.EndReleases)
	assert.True(tst, restoredBeam.EndReleases.EndMoment)
	assert.NotNil(tst, restoredBeam.ThermalLoad)
	assert.InDelta(tst, 10.0, restoredBeam.ThermalLoad.DeltaT, 1e-9)

	origCombo := orig.Combinations()[0]
	var restoredCombo *model.LoadCombination
	for _, c := range combos {
		if c.Id == origCombo.Id {
			restoredCombo = c
		}
	}
	assert.NotNil(tst, restoredCombo)
	assert.Equal(tst, origCombo.Factors, restoredCombo.Factors)
}

// Test_combinationFactorsSurviveArrayEncoding checks the [][2]float64 <->
// map[int]float64 conversion directly: factors keyed by load case id survive
// the array-of-pairs wire encoding regardless of key order.
func Test_combinationFactorsSurviveArrayEncoding(tst *testing.T) {
	combo := &model.LoadCombination{Id: 7, Name: "combo", Type: "linear", Factors: map[int]float64{1: 1.35, 2: 1.5, 3: -1.0}}
	dto := fromCombination(combo)
	assert.Len(tst, dto.Factors, 3)

	back := map[int]float64{}
	for _, pair := range dto.Factors {
		back[int(pair[0])] = pair[1]
	}
	assert.Equal(tst, combo.Factors, back)
}

func Test_decodeFixesSequencesAfterRestore(tst *testing.T) {
	orig := buildRoundTripModel()
	data, err := Encode(orig, ProjectInfo{Name: "demo"})
	assert.NoError(tst, err)

	restored, _, err := Decode(data)
	assert.NoError(tst, err)

	newMat, err := restored.AddMaterial(1, 0.2, 1, 0)
	assert.NoError(tst, err)
	assert.Greater(tst, newMat.Id, 2)

	newNode := restored.AddNode(9, 9, false)
	assert.NotNil(tst, newNode)
	for _, n := range restored.Nodes() {
		if n.Id != newNode.Id {
			assert.NotEqual(tst, n.Id, newNode.Id)
		}
	}
}
