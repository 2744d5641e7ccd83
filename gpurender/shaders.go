package gpurender

// vertexShaderSrc and fragmentShaderSrc implement the shader contracts
// of the per-cell instanced draw: pixel-snapped instance placement in
// the vertex stage, and glyph/decoration compositing in the fragment
// stage. Attribute locations are fixed: 0=pos, 1=uv,
// 2=instance_pos (uvec2), 3=packed_data (uvec2).
const vertexShaderSrc = `#version 410 core

layout(location = 0) in vec2 a_pos;
layout(location = 1) in vec2 a_uv;
layout(location = 2) in uvec2 a_instance_pos;
layout(location = 3) in uvec2 a_packed_data;

layout(std140) uniform VertexParams {
    mat4 u_projection;
    vec2 u_cell_size;
    vec2 u_padding_frac;
    float u_num_layers;
};

out vec2 v_tex_coord;
flat out uvec2 v_packed_data;

void main() {
    vec2 instancePos = vec2(a_instance_pos);
    vec2 offset = floor(instancePos * u_cell_size + 0.5);

    gl_Position = u_projection * vec4(a_pos * u_cell_size + offset, 0.0, 1.0);
    v_tex_coord = a_uv;
    v_packed_data = a_packed_data;
}
`

const fragmentShaderSrc = `#version 410 core

in vec2 v_tex_coord;
flat in uvec2 v_packed_data;

layout(std140) uniform FragmentParams {
    vec2 u_padding_frac;
    float u_underline_pos;
    float u_underline_thickness;
    float u_strikethrough_pos;
    float u_strikethrough_thickness;
};

uniform sampler2DArray u_atlas;

out vec4 o_color;

void main() {
    uint glyphId = v_packed_data.x & 0xFFFFu;

    uint layer = (glyphId & 0x0FFFu) >> 4;
    uint col = glyphId & 0x0Fu;
    uint underlineBit = (glyphId >> 12) & 1u;
    uint strikeBit = (glyphId >> 13) & 1u;
    uint emojiBit = (glyphId >> 11) & 1u;

    // packed_data.x = [glyph_id:u16][fg_r:u8][fg_g:u8] (little-endian bytes)
    // packed_data.y = [fg_b:u8][bg_r:u8][bg_g:u8][bg_b:u8]
    vec3 fgBase = vec3(
        float((v_packed_data.x >> 16) & 0xFFu),
        float((v_packed_data.x >> 24) & 0xFFu),
        float(v_packed_data.y & 0xFFu)
    ) / 255.0;
    vec3 bg = vec3(
        float((v_packed_data.y >> 8) & 0xFFu),
        float((v_packed_data.y >> 16) & 0xFFu),
        float((v_packed_data.y >> 24) & 0xFFu)
    ) / 255.0;

    float underlineCov = float(underlineBit) *
        step(abs(v_tex_coord.y - u_underline_pos), 0.5 * u_underline_thickness);
    float strikeCov = float(strikeBit) *
        step(abs(v_tex_coord.y - u_strikethrough_pos), 0.5 * u_strikethrough_thickness);
    float lineAlpha = clamp(underlineCov + strikeCov, 0.0, 1.0);

    vec2 inner = v_tex_coord * (1.0 - 2.0 * u_padding_frac) + u_padding_frac;
    vec2 uv = vec2((float(col) + inner.x) / 16.0, inner.y);

    vec4 glyph = texture(u_atlas, vec3(uv, float(layer)));

    vec3 fg = mix(fgBase, glyph.rgb, float(emojiBit));
    fg = mix(fg, fgBase, lineAlpha);

    o_color = vec4(mix(bg, fg, max(glyph.a, lineAlpha)), 1.0);
}
`
