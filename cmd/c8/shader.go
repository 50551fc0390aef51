package main

const vertexShader = `
#version 420

in  vec3 vertPos;
in  vec2 vertTexCoord;
out vec2 fragTexCoord;

void main() {
    fragTexCoord = vertTexCoord;
    gl_Position  = vec4(vertPos, 1);
}
`

const fragmentShader = `
#version 420

uniform vec4 background;
uniform vec4 foreground;

layout (binding = 0) uniform sampler2D pixels;

in  vec2 fragTexCoord;
out vec4 outputColor;

void main() {
    // Lit pixels are stored as 255 in the red channel, unlit ones as 0.
    float lit = texture(pixels, fragTexCoord).r;
    outputColor = mix(background, foreground, lit);
}
`
