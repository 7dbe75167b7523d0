// Package panels renders a solution set as a grid of scatter plots.
//
// Each solution gets one panel titled "Result N". Panels are arranged on a
// grid of ceil(sqrt(k)) columns and share a square coordinate range padded
// by 20%, so the same distance has the same length in every panel. Wells
// are drawn at their canonical coordinates with y pointing up; absent wells
// are left out.
//
//	svg := panels.RenderSVG(set, names, panels.WithEdges(m))
//
// Use [render.ToPNG] or [render.ToPDF] for raster or print output.
//
// [render.ToPNG]: github.com/matzehuels/wellpos/pkg/render.ToPNG
// [render.ToPDF]: github.com/matzehuels/wellpos/pkg/render.ToPDF
package panels
