package linear

import "math"

// Perspective builds a column-major, right-handed perspective
// projection matrix mapping view space to a [-1,1]x[-1,1]x[0,1]
// clip volume (Y-up), matching the renderer's Y-up NDC policy
// (driver's viewport inversion applies the adaptation to the
// underlying API's own convention).
func (m *M4) Perspective(fovY, aspect, near, far float32) {
	f := float32(1 / math.Tan(float64(fovY)*0.5))
	*m = M4{}
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = far / (near - far)
	m[2][3] = -1
	m[3][2] = (near * far) / (near - far)
}

// Ortho builds a column-major orthographic projection matrix mapping
// the box [l,r]x[b,t]x[near,far] in view space to the [-1,1]x[-1,1]x[0,1]
// clip volume.
func (m *M4) Ortho(l, r, b, t, near, far float32) {
	*m = M4{}
	m[0][0] = 2 / (r - l)
	m[1][1] = 2 / (t - b)
	m[2][2] = -1 / (far - near)
	m[3][0] = -(r + l) / (r - l)
	m[3][1] = -(t + b) / (t - b)
	m[3][2] = -near / (far - near)
	m[3][3] = 1
}

// LookAt builds a column-major view matrix placing the camera at eye,
// looking towards center, with the given up direction.
func (m *M4) LookAt(eye, center, up *V3) {
	var f, s, u V3
	f.Sub(center, eye)
	f.Norm(&f)
	s.Cross(&f, up)
	s.Norm(&s)
	u.Cross(&s, &f)

	*m = M4{}
	m[0][0], m[1][0], m[2][0] = s[0], s[1], s[2]
	m[0][1], m[1][1], m[2][1] = u[0], u[1], u[2]
	m[0][2], m[1][2], m[2][2] = -f[0], -f[1], -f[2]
	m[3][3] = 1
	m[3][0] = -s.Dot(eye)
	m[3][1] = -u.Dot(eye)
	m[3][2] = f.Dot(eye)
}

// Translation builds a translation matrix.
func (m *M4) Translation(t *V3) {
	m.I()
	m[3][0], m[3][1], m[3][2] = t[0], t[1], t[2]
}

// UpperLeft3x3 extracts the rotation/scale part of m (drops
// translation), used to strip a view matrix's translation when
// rendering a skybox.
func (m *M4) UpperLeft3x3() (r M4) {
	r = *m
	r[3][0], r[3][1], r[3][2] = 0, 0, 0
	r[0][3], r[1][3], r[2][3] = 0, 0, 0
	r[3][3] = 1
	return
}

// NormalFromWorld extracts a normal matrix (inverse-transpose of the
// upper-left 3x3) from a world matrix, used to transform normals
// correctly under non-uniform scale.
func NormalFromWorld(world *M4) (n M3) {
	var m3 M3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m3[i][j] = world[i][j]
		}
	}
	var inv M3
	inv.Invert(&m3)
	n.Transpose(&inv)
	return
}

// UnprojectCorners transforms the 8 NDC-space frustum corners
// (±1,±1,±1) by inv (typically the inverse of a projection*view
// matrix) into the space inv maps to, performing the perspective
// divide.
func UnprojectCorners(inv *M4) [8]V3 {
	var corners [8]V3
	i := 0
	for _, x := range [2]float32{-1, 1} {
		for _, y := range [2]float32{-1, 1} {
			for _, z := range [2]float32{0, 1} {
				var clip, world V4
				clip = V4{x, y, z, 1}
				world.Mul(inv, &clip)
				if world[3] != 0 {
					inv3 := 1 / world[3]
					corners[i] = V3{world[0] * inv3, world[1] * inv3, world[2] * inv3}
				} else {
					corners[i] = V3{world[0], world[1], world[2]}
				}
				i++
			}
		}
	}
	return corners
}
