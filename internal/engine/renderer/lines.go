package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// lineBatch is a VAO/VBO pair holding interleaved [x y z r g b] line vertices.
type lineBatch struct {
	vao, vbo uint32
	usage    uint32
	count    int32
	capacity int
}

func newLineBatch(usage uint32) *lineBatch {
	b := &lineBatch{usage: usage}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)

	// Color attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return b
}

// upload replaces the batch contents, growing the buffer when needed.
func (b *lineBatch) upload(data []float32) {
	b.count = int32(len(data) / 6)
	if len(data) == 0 {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	size := len(data) * 4
	if size > b.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, gl.Ptr(data), b.usage)
		b.capacity = size
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(data))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (b *lineBatch) draw() {
	if b.count == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.LINES, 0, b.count)
	gl.BindVertexArray(0)
}

func (b *lineBatch) delete() {
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
}
