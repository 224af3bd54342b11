package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestRecordSizes(t *testing.T) {
	assert.Equal(t, 24, (&GPUVertex{}).Size())
	assert.Equal(t, 60, (&GPUInstance{}).Size())
	assert.Equal(t, 20, (&GPUDrawCommand{}).Size())
	assert.Equal(t, 24, (&GPULineVertex{}).Size())
}

func TestInstanceMarshalLayout(t *testing.T) {
	inst := GPUInstance{
		Scale:    [3]float32{0.2, 0.5, 0.2},
		Position: [3]float32{1, 2, 3},
		Rotation: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
	}
	buf := inst.Marshal()
	require.Len(t, buf, 60)

	assert.Equal(t, float32(0.5), floatAt(buf, 4))
	assert.Equal(t, float32(1), floatAt(buf, 12))
	assert.Equal(t, float32(3), floatAt(buf, 20))
	assert.Equal(t, float32(1), floatAt(buf, 24))
	assert.Equal(t, float32(1), floatAt(buf, 40))
	assert.Equal(t, float32(1), floatAt(buf, 56))
}

func TestDrawCommandMarshalLayout(t *testing.T) {
	cmd := GPUDrawCommand{IndexCount: 36, InstanceCount: 18, FirstIndex: 72, BaseVertex: 48, BaseInstance: 3}
	buf := cmd.Marshal()

	assert.Equal(t, uint32(36), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(18), binary.LittleEndian.Uint32(buf[4:]))
	assert.Equal(t, uint32(72), binary.LittleEndian.Uint32(buf[8:]))
	assert.Equal(t, uint32(48), binary.LittleEndian.Uint32(buf[12:]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(buf[16:]))

	all := MarshalDrawCommands([]GPUDrawCommand{{}, cmd})
	assert.Equal(t, buf, all[20:])
}

func TestMarshalSlicesMatchRecords(t *testing.T) {
	verts := []GPUVertex{
		{Position: [3]float32{1, 2, 3}, Normal: [3]float32{0, 1, 0}},
		{Position: [3]float32{-1, 0, 4}, Normal: [3]float32{0, 0, 1}},
	}
	buf := MarshalVertices(verts)
	assert.Equal(t, verts[1].Marshal(), buf[24:48])

	insts := []GPUInstance{{Scale: [3]float32{1, 1, 1}}, {Position: [3]float32{5, 6, 7}}}
	assert.Equal(t, insts[1].Marshal(), MarshalInstances(insts)[60:])

	lines := []GPULineVertex{{Position: [3]float32{1, 1, 1}, Color: [3]float32{1, 0, 0}}}
	assert.Equal(t, lines[0].Marshal(), MarshalLines(lines))
}

func TestMarshalIndicesPadsToFourBytes(t *testing.T) {
	buf := MarshalIndices([]uint16{1, 2, 3})
	require.Len(t, buf, 8)
	assert.Equal(t, uint16(3), binary.LittleEndian.Uint16(buf[4:]))
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(buf[6:]))
}
