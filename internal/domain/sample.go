package domain

// SampleJourneyTitle and SampleJourneyText back the demo flow: a journey
// request without its own text falls back to this multi-modal Dubai trip.
const SampleJourneyTitle = "Marina to Gold Souq"

const SampleJourneyText = `1. taxi: 1 stop, 8.5 min, 4.2 km
   Stops: Dubai Marina Walk -> Mall of the Emirates Metro Station

2. transfer (walk): 2 stops, 1.0 min, 0.02 km
   Stops: Mall of the Emirates Metro Station entrance -> Mall of the Emirates Metro Station 1

3. MRed1 (metro): 7 stops, 12.1 min, 15.8 km
   Stops: Mall of the Emirates Metro Station 1 -> Union Metro Station 2

4. transfer (walk): 3 stops, 2.0 min, 0.05 km
   Stops: Union Metro Station 2 -> Union Metro Station (Green Line) -> Union Bus Terminal

5. 64 (bus): 8 stops, 18.3 min, 12.4 km
   Stops: Union Bus Terminal -> Gold Souq Bus Station -> Ras Al Khor Industrial Area

6. transfer (walk): 2 stops, 1.5 min, 0.08 km
   Stops: Ras Al Khor Bus Stop -> Final Destination Office Building`
